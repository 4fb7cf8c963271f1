package configloader

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeoutSeconds"`
	WriteTimeout int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout  int    `yaml:"idleTimeoutSeconds"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// LedgerConfig holds the home-ledger JSON-RPC settings.
type LedgerConfig struct {
	RPCURL               string `yaml:"rpcURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// IndexerConfig holds the external ledger-indexing gateway settings.
type IndexerConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	APIKey               string  `yaml:"apiKey"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RateLimitPerSecond   float64 `yaml:"rateLimitPerSecond"`
	SalesProbeLimit      int     `yaml:"salesProbeLimit"`
}

// MarketDataConfig holds the external DEX market-data gateway settings.
type MarketDataConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	// LedgerChainID is the gateway's chain discriminator for the home ledger.
	LedgerChainID string `yaml:"ledgerChainId"`
	NativeSymbol  string `yaml:"nativeSymbol"`
}

// TokenRegistryConfig holds the internal token registry settings.
type TokenRegistryConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// ProfileServiceConfig holds the wallet-profile service settings (linked and
// externally connected wallets).
type ProfileServiceConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// TxServiceConfig holds the transaction-submission service settings (swap
// execution and trustline removal).
type TxServiceConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// LifecycleConfig holds trustline lifecycle settings.
type LifecycleConfig struct {
	SettlementDelaySeconds int     `yaml:"settlementDelaySeconds"`
	MinSlippagePct         float64 `yaml:"minSlippagePct"`
}

// SessionConfig holds session store settings.
type SessionConfig struct {
	TTLMinutes int `yaml:"ttlMinutes"`
}

// PerformanceConfig holds fan-out and call-timeout settings.
type PerformanceConfig struct {
	MaxConcurrentRoutines int `yaml:"max_concurrent_routines"`
	CallTimeoutSeconds    int `yaml:"call_timeout_seconds"`
}

// EVMNetworkConfig describes one hex chain linked wallets may live on.
type EVMNetworkConfig struct {
	Name          string `yaml:"name"`
	RPCURL        string `yaml:"rpcURL"`
	ChainID       int64  `yaml:"chainID"`
	NativeSymbol  string `yaml:"nativeSymbol"`
	Decimals      int32  `yaml:"decimals"`
	MarketChainID string `yaml:"marketChainId"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Logging        LoggingConfig        `yaml:"logging"`
	Ledger         LedgerConfig         `yaml:"ledger"`
	Indexer        IndexerConfig        `yaml:"indexer"`
	MarketData     MarketDataConfig     `yaml:"marketData"`
	TokenRegistry  TokenRegistryConfig  `yaml:"tokenRegistry"`
	ProfileService ProfileServiceConfig `yaml:"profileService"`
	TxService      TxServiceConfig      `yaml:"txService"`
	Lifecycle      LifecycleConfig      `yaml:"lifecycle"`
	Session        SessionConfig        `yaml:"session"`
	Performance    PerformanceConfig    `yaml:"performance"`
	EVMNetworks    []EVMNetworkConfig   `yaml:"evmNetworks"`
}

// Load reads the YAML configuration file from the given path, unmarshals it
// and applies defaults for everything left unset.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)

	for _, network := range cfg.EVMNetworks {
		if network.Name == "" || network.RPCURL == "" {
			return nil, fmt.Errorf("evm network entries require name and rpcURL (got name=%q)", network.Name)
		}
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Ledger.RPCURL == "" {
		cfg.Ledger.RPCURL = "https://xrplcluster.com"
	}
	if cfg.Ledger.RequestTimeoutMillis <= 0 {
		cfg.Ledger.RequestTimeoutMillis = 10000
	}

	if cfg.Indexer.RequestTimeoutMillis <= 0 {
		cfg.Indexer.RequestTimeoutMillis = 10000
	}
	if cfg.Indexer.RateLimitPerSecond <= 0 {
		cfg.Indexer.RateLimitPerSecond = 10
	}
	if cfg.Indexer.SalesProbeLimit <= 0 {
		cfg.Indexer.SalesProbeLimit = 20
		logrus.Infof("SalesProbeLimit not set, defaulting to %d", cfg.Indexer.SalesProbeLimit)
	}

	if cfg.MarketData.BaseURL == "" {
		cfg.MarketData.BaseURL = "https://api.dexscreener.com"
	}
	if cfg.MarketData.RequestTimeoutMillis <= 0 {
		cfg.MarketData.RequestTimeoutMillis = 10000
	}
	if cfg.MarketData.LedgerChainID == "" {
		cfg.MarketData.LedgerChainID = "xrpl"
	}
	if cfg.MarketData.NativeSymbol == "" {
		cfg.MarketData.NativeSymbol = "XRP"
	}

	if cfg.TokenRegistry.RequestTimeoutMillis <= 0 {
		cfg.TokenRegistry.RequestTimeoutMillis = 5000
	}

	if cfg.ProfileService.RequestTimeoutMillis <= 0 {
		cfg.ProfileService.RequestTimeoutMillis = 5000
	}

	if cfg.TxService.RequestTimeoutMillis <= 0 {
		// Submission waits for validation, which spans several ledger closes.
		cfg.TxService.RequestTimeoutMillis = 30000
	}

	if cfg.Lifecycle.SettlementDelaySeconds <= 0 {
		cfg.Lifecycle.SettlementDelaySeconds = 4
	}
	if cfg.Lifecycle.MinSlippagePct <= 0 {
		// Thin, illiquid balances rarely fill at tight tolerances.
		cfg.Lifecycle.MinSlippagePct = 5
	}

	if cfg.Session.TTLMinutes <= 0 {
		cfg.Session.TTLMinutes = 30
	}

	if cfg.Performance.MaxConcurrentRoutines <= 0 {
		cfg.Performance.MaxConcurrentRoutines = 10
	}
	if cfg.Performance.CallTimeoutSeconds <= 0 {
		cfg.Performance.CallTimeoutSeconds = 10
	}
}
