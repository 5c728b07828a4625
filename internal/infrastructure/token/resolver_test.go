package token

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"MarketFeed/internal/ports"
)

type staticDirectory map[int][]string

func (d staticDirectory) RPCURLs(chainID int) []string { return d[chainID] }

// abiString encodes s the way eth_call returns a solidity string:
// offset word, length word, then the padded bytes.
func abiString(s string) string {
	padded := []byte(s)
	if rem := len(padded) % 32; rem != 0 {
		padded = append(padded, make([]byte, 32-rem)...)
	}

	var b strings.Builder
	b.WriteString("0x")
	b.WriteString(fmt.Sprintf("%064x", 32))
	b.WriteString(fmt.Sprintf("%064x", len(s)))
	b.WriteString(hex.EncodeToString(padded))
	return b.String()
}

func bytes32String(s string) string {
	buf := make([]byte, 32)
	copy(buf, s)
	return "0x" + hex.EncodeToString(buf)
}

func newRPCServer(t *testing.T, answers map[string]string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read rpc body: %v", err)
			return
		}

		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.Unmarshal(raw, &req); err != nil || req.Method != "eth_call" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var call struct {
			Data string `json:"data"`
		}
		if err := json.Unmarshal(req.Params[0], &call); err != nil {
			http.Error(w, "bad params", http.StatusBadRequest)
			return
		}

		result, ok := answers[call.Data]
		if !ok {
			_, _ = fmt.Fprint(w, `{"error":{"message":"execution reverted"}}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"result": result})
	}))
	t.Cleanup(server.Close)
	return server
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDecodeABIString(t *testing.T) {
	t.Parallel()

	got, err := decodeABIString(abiString("USDL"))
	if err != nil {
		t.Fatalf("decode dynamic string: %v", err)
	}
	if got != "USDL" {
		t.Fatalf("decoded %q, want USDL", got)
	}

	got, err = decodeABIString(bytes32String("MKR"))
	if err != nil {
		t.Fatalf("decode bytes32: %v", err)
	}
	if got != "MKR" {
		t.Fatalf("decoded %q, want MKR", got)
	}

	if _, err := decodeABIString("0x"); err == nil {
		t.Fatal("expected error for empty result")
	}
	if _, err := decodeABIString("0xzz"); err == nil {
		t.Fatal("expected error for non-hex result")
	}
}

func TestResolveReadsNameAndSymbol(t *testing.T) {
	t.Parallel()

	server := newRPCServer(t, map[string]string{
		nameSelector:   abiString("Lift Dollar"),
		symbolSelector: abiString("USDL"),
	})

	resolver := NewResolver(staticDirectory{1: {server.URL}}, server.Client(), discardLogger())

	name, symbol, err := resolver.Resolve(context.Background(), "0xabc", 1)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if name != "Lift Dollar" || symbol != "USDL" {
		t.Fatalf("resolved %q/%q", name, symbol)
	}
}

func TestResolveFallsThroughToNextRPC(t *testing.T) {
	t.Parallel()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(broken.Close)

	working := newRPCServer(t, map[string]string{
		nameSelector:   abiString("Lift Dollar"),
		symbolSelector: abiString("USDL"),
	})

	resolver := NewResolver(staticDirectory{1: {broken.URL, working.URL}}, nil, discardLogger())

	name, _, err := resolver.Resolve(context.Background(), "0xabc", 1)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if name != "Lift Dollar" {
		t.Fatalf("resolved name %q", name)
	}
}

func TestResolveNotFound(t *testing.T) {
	t.Parallel()

	reverting := newRPCServer(t, nil)
	resolver := NewResolver(staticDirectory{1: {reverting.URL}}, reverting.Client(), discardLogger())

	_, _, err := resolver.Resolve(context.Background(), "0xabc", 1)
	if !errors.Is(err, ports.ErrTokenNotFound) {
		t.Fatalf("error = %v, want ErrTokenNotFound", err)
	}

	_, _, err = resolver.Resolve(context.Background(), "0xabc", 999)
	if !errors.Is(err, ports.ErrTokenNotFound) {
		t.Fatalf("unknown chain error = %v, want ErrTokenNotFound", err)
	}
}
