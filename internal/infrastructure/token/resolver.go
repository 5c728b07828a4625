// Package token resolves ERC-20 name/symbol on chain through plain
// eth_call JSON-RPC requests, trying each known RPC for the chain in turn.
package token

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"MarketFeed/internal/ports"
)

// Function selectors for the minimal ERC-20 metadata interface.
const (
	nameSelector   = "0x06fdde03"
	symbolSelector = "0x95d89b41"
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type callParams struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

// Resolver implements ports.TokenResolver over an RPC directory.
type Resolver struct {
	directory ports.RPCDirectory
	client    *http.Client
	logger    *slog.Logger
}

var _ ports.TokenResolver = (*Resolver)(nil)

// NewResolver wires the resolver to a chain registry and HTTP client.
func NewResolver(directory ports.RPCDirectory, client *http.Client, log *slog.Logger) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Resolver{directory: directory, client: client, logger: log}
}

// Resolve walks the chain's RPC endpoints until one answers both metadata
// calls; when every endpoint fails it returns ports.ErrTokenNotFound.
func (r *Resolver) Resolve(ctx context.Context, address string, chainID int) (string, string, error) {
	urls := r.directory.RPCURLs(chainID)
	if len(urls) == 0 {
		return "", "", fmt.Errorf("no RPC URLs known for chain %d: %w", chainID, ports.ErrTokenNotFound)
	}

	for _, rpcURL := range urls {
		name, err := r.callString(ctx, rpcURL, address, nameSelector)
		if err != nil {
			r.debug("rpc call failed", "rpc", rpcURL, "error", err)
			continue
		}

		symbol, err := r.callString(ctx, rpcURL, address, symbolSelector)
		if err != nil {
			r.debug("rpc call failed", "rpc", rpcURL, "error", err)
			continue
		}

		return name, symbol, nil
	}

	return "", "", fmt.Errorf("token %s on chain %d: %w", address, chainID, ports.ErrTokenNotFound)
}

func (r *Resolver) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Resolver) callString(ctx context.Context, rpcURL, address, selector string) (string, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "eth_call",
		Params:  []any{callParams{To: address, Data: selector}, "latest"},
		ID:      1,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rpcURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("rpc returned %s", httpResp.Status)
	}

	var resp rpcResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("rpc error: %s", resp.Error.Message)
	}

	return decodeABIString(resp.Result)
}

// decodeABIString unwraps a solidity string return value: a 32-byte offset,
// a 32-byte length, then the UTF-8 bytes. Some legacy tokens return a raw
// bytes32 instead; those are handled by trimming trailing zero bytes.
func decodeABIString(result string) (string, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(result, "0x"))
	if err != nil {
		return "", fmt.Errorf("decode hex result: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty call result")
	}

	if len(raw) == 32 {
		return strings.TrimRight(string(raw), "\x00"), nil
	}
	if len(raw) < 64 {
		return "", fmt.Errorf("short call result: %d bytes", len(raw))
	}

	length := int(raw[63]) | int(raw[62])<<8
	if 64+length > len(raw) {
		return "", fmt.Errorf("string length %d exceeds payload", length)
	}
	return string(raw[64 : 64+length]), nil
}
