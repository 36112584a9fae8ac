package cli

import (
	"bufio"
	"os"

	"github.com/hivegate/hivegate/internal/client/api"
	"github.com/hivegate/hivegate/internal/client/config"
	"github.com/hivegate/hivegate/internal/client/services"
	"github.com/hivegate/hivegate/internal/server/models"
	"github.com/hivegate/hivegate/internal/signer/keystore"
	"github.com/hivegate/hivegate/internal/storage"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	user        *models.User
	reader      *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := api.NewClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	store, err := storage.New(storage.KindFile, storage.Options{Dir: c.DataDir})
	if err != nil {
		return nil, err
	}

	as := services.NewAuthService(apiClient, keystore.NewStore(store), c.HiveAuthWSURL)

	return &App{config: c, authService: as, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) isLoggedIn() bool {
	return a.user != nil && a.user.IsLoggedIn
}
