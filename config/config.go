// Package config loads the finality-verifier daemon's on-disk
// configuration: chain parameters, oracle endpoint, and logging.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/jessevdk/go-flags"
)

const (
	defaultLogLevel       = "info"
	defaultLogFormat      = "auto"
	defaultLogFilename    = "finality-verifier.log"
	defaultConfigFileName = "finality-verifier.conf"

	defaultMetricsListener = "127.0.0.1:2112"
	defaultOracleRPC       = "http://127.0.0.1:8899"

	defaultChainID    = 1
	defaultStartBlock = 1
	defaultEpochSize  = 360
)

// DefaultDir is the finality verifier's default home directory:
//
//	C:\Users\<username>\AppData\Local\ on Windows
//	~/.finality-verifier on Linux
//	~/Library/Application Support/Finality-verifier on MacOS
var DefaultDir = btcutil.AppDataDir("finality-verifier", false)

// Config is the daemon's full on-disk configuration.
type Config struct {
	LogLevel  string `long:"loglevel" description:"logging level"`
	LogFormat string `long:"logformat" description:"logging output format: json, console, or logfmt"`

	MetricsListener string `long:"metricslistener" description:"address the prometheus scrape endpoint listens on"`
	OracleRPC       string `long:"oracle_rpc" description:"connect to the voting-power oracle RPC service"`

	ChainID    uint32 `long:"chainid" description:"chain identifier the registry and aggregator operate against"`
	StartBlock uint64 `long:"startblock" description:"first block number covered by epoch 1"`
	EpochSize  uint64 `long:"epochsize" description:"number of blocks per epoch"`
}

// LoadConfig loads the daemon's conf file from homePath.
func LoadConfig(homePath string) (*Config, error) {
	cfgFile := ConfigFile(homePath)
	if _, err := os.Stat(cfgFile); err != nil {
		return nil, fmt.Errorf("specified config file does not exist in %s", cfgFile)
	}

	var cfg Config
	fileParser := flags.NewParser(&cfg, flags.Default)
	if err := flags.NewIniParser(fileParser).ParseFile(cfgFile); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (cfg *Config) Validate() error {
	if _, err := net.ResolveTCPAddr("tcp", cfg.MetricsListener); err != nil {
		return fmt.Errorf("invalid metrics listener address %s: %w", cfg.MetricsListener, err)
	}

	if cfg.OracleRPC == "" {
		return fmt.Errorf("missing oracle RPC URL")
	}

	if cfg.EpochSize == 0 {
		return fmt.Errorf("epochsize must be nonzero")
	}

	return nil
}

// ConfigFile returns the conf file path under homePath.
func ConfigFile(homePath string) string {
	return filepath.Join(homePath, defaultConfigFileName)
}

// LogFile returns the log file path under homePath.
func LogFile(homePath string) string {
	return filepath.Join(homePath, defaultLogFilename)
}

// DefaultConfig returns the default configuration rooted at DefaultDir.
func DefaultConfig() *Config {
	return DefaultConfigWithHomePath(DefaultDir)
}

// DefaultConfigWithHomePath returns the default configuration; homePath is
// accepted for symmetry with LoadConfig/ConfigFile but unused by the
// defaults themselves.
func DefaultConfigWithHomePath(homePath string) *Config {
	cfg := &Config{
		LogLevel:        defaultLogLevel,
		LogFormat:       defaultLogFormat,
		MetricsListener: defaultMetricsListener,
		OracleRPC:       defaultOracleRPC,
		ChainID:         defaultChainID,
		StartBlock:      defaultStartBlock,
		EpochSize:       defaultEpochSize,
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
