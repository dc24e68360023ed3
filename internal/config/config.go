// Package config loads the daemon configuration from the environment and
// validates it before anything else starts.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the widgetd runtime configuration.
type Config struct {
	ListenAddr string `validate:"required"`
	LogLevel   string `validate:"oneof=debug info warn error"`

	// Destination vault.
	DestinationChainID       uint64 `validate:"required"`
	DestinationTokenAddress  string `validate:"required,eth_addr"`
	DestinationTokenSymbol   string `validate:"required"`
	DestinationTokenDecimals uint8  `validate:"required"`
	DestinationLabel         string
	DestinationGasSymbol     string

	VaultProtocol string `validate:"required,oneof=aave morpho"`
	VaultAddress  string `validate:"required,eth_addr"`

	// Account is the depositor address; optional at startup.
	Account string `validate:"omitempty,eth_addr"`

	PollInterval       time.Duration `validate:"min=0"`
	RefreshMinInterval time.Duration `validate:"min=0"`
	ExecuteGasLimit    uint64
}

// FromEnv builds a Config from WIDGETD_* environment variables, applying
// defaults before validation.
func FromEnv() (Config, error) {
	cfg := Config{
		ListenAddr:               envOr("WIDGETD_LISTEN_ADDR", ":8787"),
		LogLevel:                 envOr("WIDGETD_LOG_LEVEL", "info"),
		DestinationTokenAddress:  os.Getenv("WIDGETD_DEST_TOKEN_ADDRESS"),
		DestinationTokenSymbol:   envOr("WIDGETD_DEST_TOKEN_SYMBOL", "USDC"),
		DestinationLabel:         envOr("WIDGETD_DEST_LABEL", "Vault deposit"),
		DestinationGasSymbol:     os.Getenv("WIDGETD_DEST_GAS_SYMBOL"),
		VaultProtocol:            envOr("WIDGETD_VAULT_PROTOCOL", "aave"),
		VaultAddress:             os.Getenv("WIDGETD_VAULT_ADDRESS"),
		Account:                  os.Getenv("WIDGETD_ACCOUNT"),
	}

	var err error
	if cfg.DestinationChainID, err = envUint("WIDGETD_DEST_CHAIN_ID", 8453); err != nil {
		return Config{}, err
	}
	decimals, err := envUint("WIDGETD_DEST_TOKEN_DECIMALS", 6)
	if err != nil {
		return Config{}, err
	}
	cfg.DestinationTokenDecimals = uint8(decimals)
	if cfg.ExecuteGasLimit, err = envUint("WIDGETD_EXECUTE_GAS_LIMIT", 0); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval, err = envDuration("WIDGETD_POLL_INTERVAL", 0); err != nil {
		return Config{}, err
	}
	if cfg.RefreshMinInterval, err = envDuration("WIDGETD_REFRESH_MIN_INTERVAL", 0); err != nil {
		return Config{}, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUint(key string, fallback uint64) (uint64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s: %w", key, err)
	}
	return v, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s: %w", key, err)
	}
	return v, nil
}
