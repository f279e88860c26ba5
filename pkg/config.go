package dirhash

import (
	"fmt"
	"os"

	"github.com/go-ini/ini"
)

// Config represents the dirhash configuration file. All settings are
// defaults only: explicit command line flags always win.
type Config struct {
	configPath string
	ini        *ini.File
}

// ChecksumConfig represents checksum engine configuration
type ChecksumConfig struct {
	Algorithm string // Default hash algorithm
	ChunkSize int    // Default chunk size in bytes
}

// SymlinkConfig represents symlink handling configuration
type SymlinkConfig struct {
	Resolve bool // Whether symlinks are resolved to their targets
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// LoadConfig loads configuration from an INI file. A missing file yields the
// built-in defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{
		configPath: configPath,
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		return cfg, nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg.ini = iniFile

	return cfg, nil
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	checksumSection, err := c.ini.NewSection("checksum")
	if err != nil {
		return fmt.Errorf("failed to create checksum section: %w", err)
	}
	if _, err = checksumSection.NewKey("algorithm", DefaultAlgorithm); err != nil {
		return fmt.Errorf("failed to set default algorithm: %w", err)
	}
	if _, err = checksumSection.NewKey("chunksize", fmt.Sprintf("%d", DefaultChunkSize)); err != nil {
		return fmt.Errorf("failed to set default chunk size: %w", err)
	}

	symlinkSection, err := c.ini.NewSection("symlink")
	if err != nil {
		return fmt.Errorf("failed to create symlink section: %w", err)
	}
	if _, err = symlinkSection.NewKey("resolve", "true"); err != nil {
		return fmt.Errorf("failed to set default symlink resolve: %w", err)
	}

	verboseSection, err := c.ini.NewSection("verbose")
	if err != nil {
		return fmt.Errorf("failed to create verbose section: %w", err)
	}
	if _, err = verboseSection.NewKey("level", "0"); err != nil {
		return fmt.Errorf("failed to set default verbose level: %w", err)
	}
	if _, err = verboseSection.NewKey("debug", ""); err != nil {
		return fmt.Errorf("failed to set default debug flags: %w", err)
	}

	return nil
}

// Save writes the configuration back to its file.
func (c *Config) Save() error {
	if err := c.ini.SaveTo(c.configPath); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// GetChecksumConfig returns the checksum engine configuration
func (c *Config) GetChecksumConfig() *ChecksumConfig {
	checksumConfig := &ChecksumConfig{
		Algorithm: DefaultAlgorithm, // fallback default
		ChunkSize: DefaultChunkSize, // fallback default
	}

	if c.ini.HasSection("checksum") {
		section := c.ini.Section("checksum")
		if section.HasKey("algorithm") {
			checksumConfig.Algorithm = section.Key("algorithm").String()
		}
		if section.HasKey("chunksize") {
			if chunkSize, err := section.Key("chunksize").Int(); err == nil {
				checksumConfig.ChunkSize = chunkSize
			}
		}
	}

	return checksumConfig
}

// GetSymlinkConfig returns the symlink configuration
func (c *Config) GetSymlinkConfig() *SymlinkConfig {
	symlinkConfig := &SymlinkConfig{
		Resolve: true, // fallback default
	}

	if c.ini.HasSection("symlink") {
		section := c.ini.Section("symlink")
		if section.HasKey("resolve") {
			if resolve, err := section.Key("resolve").Bool(); err == nil {
				symlinkConfig.Resolve = resolve
			}
		}
	}

	return symlinkConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{
		Level: 0,  // fallback default
		Debug: "", // fallback default
	}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}
