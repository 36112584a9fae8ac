package config

import (
	"flag"
	"os"
	"time"

	"github.com/hivegate/hivegate/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-n string   chain API node URL
//	-w string   hiveauth websocket URL
//	-e string   environment ("development" or "production")
//	-s string   session cookie secret
//	-k string   chat token secret
//	-t int      session TTL, hours
//
// Args are first filtered to the flags handled here via flagx.FilterArgs so
// the -c/-config flag consumed by the JSON layer does not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-n", "-w", "-e", "-s", "-k", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.ChainAPIURL, "n", config.ChainAPIURL, "chain API node URL")
	fs.StringVar(&config.HiveAuthWSURL, "w", config.HiveAuthWSURL, "hiveauth websocket URL")
	fs.StringVar(&config.Env, "e", config.Env, "environment")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret")
	fs.StringVar(&config.ChatTokenSecret, "k", config.ChatTokenSecret, "chat token secret")

	sessionTTLHours := fs.Int("t", int(config.SessionTTL.Hours()), "session ttl (in hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTLHours) * time.Hour
}
