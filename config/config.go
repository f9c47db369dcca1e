package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the daemon configuration, loaded from TOML.
type Config struct {
	ListenAddress        string  `toml:"ListenAddress"`
	DataDir              string  `toml:"DataDir"`
	GenesisFile          string  `toml:"GenesisFile"`
	NetworkName          string  `toml:"NetworkName"`
	MaxNameLength        int     `toml:"MaxNameLength"`
	MaxDescriptionLength int     `toml:"MaxDescriptionLength"`
	MaxTitleLength       int     `toml:"MaxTitleLength"`
	MaxCIDLength         int     `toml:"MaxCIDLength"`
	MaxLinkLength        int     `toml:"MaxLinkLength"`
	RPCRateLimit         float64 `toml:"RPCRateLimit"`
	RPCRateBurst         int     `toml:"RPCRateBurst"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		ListenAddress:        ":8546",
		DataDir:              "./spacedata",
		NetworkName:          "space-local",
		MaxNameLength:        80,
		MaxDescriptionLength: 500,
		MaxTitleLength:       80,
		MaxCIDLength:         200,
		MaxLinkLength:        200,
		RPCRateLimit:         5,
		RPCRateBurst:         10,
	}
}

// Load loads the configuration from the given path, creating a default
// file when none exists.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s has unknown field %q", path, undecoded[0].String())
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if strings.TrimSpace(cfg.ListenAddress) == "" {
		cfg.ListenAddress = def.ListenAddress
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = def.DataDir
	}
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = def.NetworkName
	}
	if cfg.MaxNameLength <= 0 {
		cfg.MaxNameLength = def.MaxNameLength
	}
	if cfg.MaxDescriptionLength <= 0 {
		cfg.MaxDescriptionLength = def.MaxDescriptionLength
	}
	if cfg.MaxTitleLength <= 0 {
		cfg.MaxTitleLength = def.MaxTitleLength
	}
	if cfg.MaxCIDLength <= 0 {
		cfg.MaxCIDLength = def.MaxCIDLength
	}
	if cfg.MaxLinkLength <= 0 {
		cfg.MaxLinkLength = def.MaxLinkLength
	}
	if cfg.RPCRateLimit <= 0 {
		cfg.RPCRateLimit = def.RPCRateLimit
	}
	if cfg.RPCRateBurst <= 0 {
		cfg.RPCRateBurst = def.RPCRateBurst
	}
}

// Validate rejects configurations the daemon cannot run with.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.ListenAddress) == "" {
		return fmt.Errorf("config: ListenAddress required")
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return fmt.Errorf("config: DataDir required")
	}
	if cfg.GenesisFile != "" {
		if _, err := os.Stat(cfg.GenesisFile); err != nil {
			return fmt.Errorf("config: GenesisFile %s: %w", cfg.GenesisFile, err)
		}
	}
	if cfg.RPCRateBurst < 1 {
		return fmt.Errorf("config: RPCRateBurst must be at least 1")
	}
	return nil
}

func createDefault(path string) (*Config, error) {
	cfg := Default()
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(cfg)
}
