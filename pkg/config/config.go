// Package config provides a reusable loader for the SDK's runtime
// configuration files and environment variables. It is versioned so that
// applications can depend on a stable API contract.
//
// Version: v0.1.0
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/keroro520/solana-launchpad-sub001/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Network selects which cluster the SDK talks to (spec §6).
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkDevnet  Network = "devnet"
	NetworkTestnet Network = "testnet"
	NetworkCustom  Network = "custom"
)

// Config is the unified runtime configuration for a client of the SDK.
type Config struct {
	Network Network `mapstructure:"network" json:"network"`

	RPCURL      string `mapstructure:"rpc_url" json:"rpc_url"`
	WSURL       string `mapstructure:"ws_url" json:"ws_url"`
	ProgramID   string `mapstructure:"program_id" json:"program_id"`
	Commitment  string `mapstructure:"commitment" json:"commitment"`

	RPCTimeout time.Duration `mapstructure:"rpc_timeout" json:"rpc_timeout"`

	CacheEnabled  bool `mapstructure:"cache_enabled" json:"cache_enabled"`
	CacheSize     int  `mapstructure:"cache_size" json:"cache_size"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl" json:"cache_ttl"`
	BatchMaxSize  int  `mapstructure:"batch_max_size" json:"batch_max_size"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
	} `mapstructure:"logging" json:"logging"`
}

// networkDefaults maps each built-in network preset to its canonical RPC
// endpoint. Custom requires the caller to supply both RPCURL and ProgramID
// explicitly (spec §6).
var networkDefaults = map[Network]string{
	NetworkMainnet: "https://api.mainnet-beta.solana.com",
	NetworkDevnet:  "https://api.devnet.solana.com",
	NetworkTestnet: "https://api.testnet.solana.com",
}

// profile is one named configuration preset (spec §6: development, testing,
// production, performance).
type profile struct {
	network      Network
	commitment   string
	rpcTimeout   time.Duration
	cacheEnabled bool
	cacheSize    int
	cacheTTL     time.Duration
	batchMaxSize int
	logLevel     string
}

var profiles = map[string]profile{
	"development": {network: NetworkDevnet, commitment: "confirmed", rpcTimeout: 30 * time.Second, cacheEnabled: false, cacheSize: 128, cacheTTL: 5 * time.Second, batchMaxSize: 10, logLevel: "debug"},
	"testing":     {network: NetworkTestnet, commitment: "confirmed", rpcTimeout: 30 * time.Second, cacheEnabled: false, cacheSize: 128, cacheTTL: 5 * time.Second, batchMaxSize: 10, logLevel: "info"},
	"production":  {network: NetworkMainnet, commitment: "finalized", rpcTimeout: 30 * time.Second, cacheEnabled: true, cacheSize: 512, cacheTTL: 10 * time.Second, batchMaxSize: 10, logLevel: "warn"},
	"performance": {network: NetworkMainnet, commitment: "processed", rpcTimeout: 10 * time.Second, cacheEnabled: true, cacheSize: 2048, cacheTTL: 2 * time.Second, batchMaxSize: 20, logLevel: "error"},
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load applies a named profile preset, then merges a YAML config file and
// environment variable overrides on top of it. profileName selects one of
// "development", "testing", "production", "performance"; an empty or
// unknown name falls back to "development". The resulting configuration is
// stored in AppConfig and returned.
func Load(profileName string) (*Config, error) {
	_ = godotenv.Load() // best-effort; a missing .env is not an error

	p, ok := profiles[profileName]
	if !ok {
		p = profiles["development"]
	}

	viper.SetDefault("network", string(p.network))
	viper.SetDefault("rpc_url", networkDefaults[p.network])
	viper.SetDefault("commitment", p.commitment)
	viper.SetDefault("rpc_timeout", p.rpcTimeout)
	viper.SetDefault("cache_enabled", p.cacheEnabled)
	viper.SetDefault("cache_size", p.cacheSize)
	viper.SetDefault("cache_ttl", p.cacheTTL)
	viper.SetDefault("batch_max_size", p.batchMaxSize)
	viper.SetDefault("logging.level", p.logLevel)

	viper.SetConfigName(profileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath("config")
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, utils.Wrap(err, fmt.Sprintf("read %s config file", profileName))
		}
	}

	viper.SetEnvPrefix("LAUNCHPAD")
	viper.AutomaticEnv()

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}

	if err := Validate(&AppConfig); err != nil {
		return nil, err
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the LAUNCHPAD_PROFILE environment
// variable, defaulting to "development".
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("LAUNCHPAD_PROFILE", "development"))
}

// Validate enforces spec §6's configuration invariants: a custom network
// requires both an RPC URL and a program id, and rpc_timeout must be
// positive.
func Validate(c *Config) error {
	if c.Network == NetworkCustom {
		if c.RPCURL == "" {
			return utils.Wrap(fmt.Errorf("rpc_url is required for network=custom"), "validate config")
		}
		if c.ProgramID == "" {
			return utils.Wrap(fmt.Errorf("program_id is required for network=custom"), "validate config")
		}
	}
	if c.RPCTimeout <= 0 {
		return utils.Wrap(fmt.Errorf("rpc_timeout must be positive"), "validate config")
	}
	return nil
}
