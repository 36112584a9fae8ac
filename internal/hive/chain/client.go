// Package chain is the JSON-RPC client for a Hive API node (condenser API).
// It implements authority.Fetcher and carries transaction broadcast for the
// signer layer. Retry policy is left to callers; failures surface as typed
// errors and are never retried here.
package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hivegate/hivegate/internal/common"
	"github.com/hivegate/hivegate/internal/hive/authority"
)

const defaultTimeout = 10 * time.Second

// Client talks to a single condenser-API endpoint.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string) *Client {
	return NewClientWithTimeout(url, defaultTimeout)
}

// NewClientWithTimeout overrides the per-request timeout. Zero or negative
// keeps the default.
func NewClientWithTimeout(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int    `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// call performs one JSON-RPC round trip. Transport and node-side failures
// both map to common.ErrUpstreamUnavailable so callers can treat the node as
// a single collaborator that is either answering or not.
func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %s", common.ErrUpstreamUnavailable, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", common.ErrUpstreamUnavailable, err)
	}

	var rr rpcResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", common.ErrUpstreamUnavailable, err)
	}
	if rr.Error != nil {
		return nil, fmt.Errorf("%w: node error %d: %s", common.ErrUpstreamUnavailable, rr.Error.Code, rr.Error.Message)
	}
	return rr.Result, nil
}

// keyAuthJSON is the wire form of one key_auths entry: a two-element array
// of mixed types, ["STM...", weight].
type keyAuthJSON struct {
	Key    string
	Weight uint32
}

func (k *keyAuthJSON) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("key_auth entry has %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &k.Key); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &k.Weight)
}

type authorityJSON struct {
	WeightThreshold uint32            `json:"weight_threshold"`
	AccountAuths    []json.RawMessage `json:"account_auths"`
	KeyAuths        []keyAuthJSON     `json:"key_auths"`
}

type accountJSON struct {
	Name    string        `json:"name"`
	Owner   authorityJSON `json:"owner"`
	Active  authorityJSON `json:"active"`
	Posting authorityJSON `json:"posting"`
}

// FetchAuthority implements authority.Fetcher via condenser_api.get_accounts.
func (c *Client) FetchAuthority(ctx context.Context, account string, keyType authority.KeyType) (*authority.Authority, error) {
	result, err := c.call(ctx, "condenser_api.get_accounts", [][]string{{account}})
	if err != nil {
		return nil, err
	}

	var accounts []accountJSON
	if err := json.Unmarshal(result, &accounts); err != nil {
		return nil, fmt.Errorf("%w: decode accounts: %v", common.ErrUpstreamUnavailable, err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrAccountNotFound, account)
	}

	var aj authorityJSON
	switch keyType {
	case authority.KeyTypePosting:
		aj = accounts[0].Posting
	case authority.KeyTypeActive:
		aj = accounts[0].Active
	case authority.KeyTypeOwner:
		aj = accounts[0].Owner
	default:
		return nil, common.ErrUnsupportedKeyType
	}

	auth := &authority.Authority{
		WeightThreshold: aj.WeightThreshold,
		AccountAuths:    len(aj.AccountAuths),
	}
	for _, ka := range aj.KeyAuths {
		auth.KeyAuths = append(auth.KeyAuths, authority.KeyAuth{Key: ka.Key, Weight: ka.Weight})
	}
	return auth, nil
}

// BroadcastTransaction submits a signed transaction and waits for the node
// to confirm inclusion. The transaction is carried as opaque JSON.
func (c *Client) BroadcastTransaction(ctx context.Context, tx json.RawMessage) (json.RawMessage, error) {
	return c.call(ctx, "condenser_api.broadcast_transaction_synchronous", []json.RawMessage{tx})
}
