package signer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hivegate/hivegate/internal/hive/authority"
	"github.com/hivegate/hivegate/internal/hive/keys"
)

// defaultHiveAuthWait bounds how long we wait for the user to approve a
// request on their device when the caller's context has no deadline.
const defaultHiveAuthWait = 60 * time.Second

// HiveAuthSigner delegates to the remote hiveauth service over a websocket.
// The service relays requests to the user's wallet app; signature-level
// detail stays on the remote side and this signer treats it as opaque.
type HiveAuthSigner struct {
	account string
	keyType authority.KeyType
	url     string

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewHiveAuthSigner(account string, keyType authority.KeyType, url string) (*HiveAuthSigner, error) {
	if url == "" {
		return nil, errors.New("hiveauth signer requires a websocket URL")
	}
	return &HiveAuthSigner{account: account, keyType: keyType, url: url}, nil
}

type hiveAuthMessage struct {
	Cmd     string          `json:"cmd"`
	Account string          `json:"account,omitempty"`
	KeyType string          `json:"key_type,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// roundTrip sends one request and waits for its ack or nack, dialing lazily
// on first use. The connection is serialized: hiveauth pairs each request
// with one user approval.
func (s *HiveAuthSigner) roundTrip(ctx context.Context, req hiveAuthMessage) (*hiveAuthMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
		if err != nil {
			return nil, fmt.Errorf("hiveauth dial: %w", err)
		}
		s.conn = conn
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultHiveAuthWait)
	}
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	if err := s.conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("hiveauth send: %w", err)
	}
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}

	for {
		var resp hiveAuthMessage
		if err := s.conn.ReadJSON(&resp); err != nil {
			return nil, fmt.Errorf("hiveauth read: %w", err)
		}
		switch resp.Cmd {
		case req.Cmd + "_ack":
			return &resp, nil
		case req.Cmd + "_nack", req.Cmd + "_err":
			return nil, fmt.Errorf("hiveauth rejected %s: %s", req.Cmd, resp.Error)
		default:
			// Status/keepalive frames are interleaved; skip them.
		}
	}
}

func (s *HiveAuthSigner) SignChallenge(ctx context.Context, message string, _ []byte) (keys.Signature, error) {
	data, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return nil, err
	}
	resp, err := s.roundTrip(ctx, hiveAuthMessage{
		Cmd:     "sign_challenge",
		Account: s.account,
		KeyType: string(s.keyType),
		Data:    data,
	})
	if err != nil {
		return nil, err
	}
	var payload struct {
		Signature string `json:"signature"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("hiveauth ack: decode: %w", err)
	}
	return keys.SignatureFromHex(payload.Signature)
}

func (s *HiveAuthSigner) SignTransaction(ctx context.Context, tx json.RawMessage) (*SignedTransaction, error) {
	resp, err := s.roundTrip(ctx, hiveAuthMessage{
		Cmd:     "sign_tx",
		Account: s.account,
		KeyType: string(s.keyType),
		Data:    tx,
	})
	if err != nil {
		return nil, err
	}
	var out SignedTransaction
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return nil, fmt.Errorf("hiveauth ack: decode: %w", err)
	}
	return &out, nil
}

func (s *HiveAuthSigner) BroadcastTransaction(ctx context.Context, tx json.RawMessage) (*BroadcastResult, error) {
	resp, err := s.roundTrip(ctx, hiveAuthMessage{
		Cmd:     "broadcast",
		Account: s.account,
		KeyType: string(s.keyType),
		Data:    tx,
	})
	if err != nil {
		return &BroadcastResult{Success: false, Error: err.Error()}, nil
	}
	return &BroadcastResult{Success: true, Result: resp.Data}, nil
}

// Destroy closes the websocket. No key material is held locally.
func (s *HiveAuthSigner) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}
