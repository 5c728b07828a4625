// Command tokensync discovers Curve-listed tokens, resolves their on-chain
// metadata, and appends newly seen tokens to the YAML configuration.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"MarketFeed/internal/config"
	"MarketFeed/internal/infrastructure/chainlist"
	"MarketFeed/internal/infrastructure/token"
	"MarketFeed/internal/logging"
	"MarketFeed/internal/ports"
)

const (
	curvePlatformAPI = "https://api.curve.finance/api/getPlatforms/"
	curveTokenAPI    = "https://api.curve.finance/api/getTokens/all/"

	// Placeholder address Curve uses for chain-native assets.
	nativeTokenAddress = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"
)

type platformsResponse struct {
	Data struct {
		PlatformToChainIDMap map[string]int `json:"platformToChainIdMap"`
	} `json:"data"`
}

type tokensResponse struct {
	Data struct {
		Tokens []curveToken `json:"tokens"`
	} `json:"data"`
}

type curveToken struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	logger := logging.New("info")

	if err := run(context.Background(), *configPath, logger); err != nil {
		logger.Error("token sync failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, logger *slog.Logger) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		logger.Warn("config not readable, starting from defaults", "error", err)
		cfg = config.Load()
	}

	client := &http.Client{Timeout: 30 * time.Second}

	registry := chainlist.NewRegistry(cfg.Chainlist, client)
	if err := registry.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh chain registry: %w", err)
	}

	resolver := token.NewResolver(registry, client, logger.With("component", "resolver"))

	networks, err := fetchPlatforms(ctx, client)
	if err != nil {
		return fmt.Errorf("fetch platforms: %w", err)
	}
	logger.Info("fetched networks", "count", len(networks))

	added := 0
	for network, curveChainID := range networks {
		// Chainlist is the authority on chain ids; Curve's map is the
		// fallback, and chains it alone knows about carry no RPC URLs
		// anyway, so those networks are skipped up front.
		chainID, ok := registry.ChainID(network)
		if !ok {
			chainID = curveChainID
			if _, known := registry.ChainName(chainID); !known {
				logger.Warn("chain unknown to registry, skipping network", "network", network, "chainId", chainID)
				continue
			}
		}

		count, err := syncNetwork(ctx, client, resolver, &cfg, network, chainID, logger)
		if err != nil {
			logger.Error("network sync failed, continuing", "network", network, "error", err)
			continue
		}
		added += count
	}

	if err := cfg.WriteFile(configPath); err != nil {
		return err
	}

	logger.Info("token sync complete", "added", added, "total", len(cfg.Tokens))
	return nil
}

func syncNetwork(ctx context.Context, client *http.Client, resolver ports.TokenResolver,
	cfg *config.Config, network string, chainID int, logger *slog.Logger) (int, error) {

	tokens, err := fetchTokens(ctx, client, network)
	if err != nil {
		return 0, err
	}
	logger.Info("fetched tokens", "network", network, "count", len(tokens))

	added := 0
	for _, t := range tokens {
		if strings.EqualFold(t.Address, nativeTokenAddress) {
			continue
		}
		if tokenExists(cfg.Tokens, t.Symbol, network, t.Address) {
			continue
		}

		name, symbol, err := resolver.Resolve(ctx, t.Address, chainID)
		if err != nil {
			if errors.Is(err, ports.ErrTokenNotFound) {
				logger.Warn("token metadata unavailable", "address", t.Address, "chain", chainID)
				continue
			}
			return added, err
		}

		cfg.Tokens = append(cfg.Tokens, config.Token{
			Name:              name,
			Symbol:            symbol,
			Address:           map[string]string{network: t.Address},
			AdditionalPhrases: []string{"defi"},
			LookbackYears:     2,
		})
		added++
		logger.Info("added token", "name", name, "symbol", symbol, "network", network)
	}

	return added, nil
}

func tokenExists(tokens []config.Token, symbol, network, address string) bool {
	for _, existing := range tokens {
		if !strings.EqualFold(existing.Symbol, symbol) {
			continue
		}
		if addr, ok := existing.Address[network]; ok && strings.EqualFold(addr, address) {
			return true
		}
	}
	return false
}

func fetchPlatforms(ctx context.Context, client *http.Client) (map[string]int, error) {
	var resp platformsResponse
	if err := getJSON(ctx, client, curvePlatformAPI, &resp); err != nil {
		return nil, err
	}
	return resp.Data.PlatformToChainIDMap, nil
}

func fetchTokens(ctx context.Context, client *http.Client, network string) ([]curveToken, error) {
	var resp tokensResponse
	if err := getJSON(ctx, client, curveTokenAPI+network, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Tokens, nil
}

func getJSON(ctx context.Context, client *http.Client, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %s", rawURL, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}
