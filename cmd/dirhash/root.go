package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	dirhash "dirhash/pkg"
)

func newRootCommand() *cobra.Command {
	var (
		chunkSize    int
		algo         string
		noSymlinks   bool
		writeCache   string
		readCache    string
		configPath   string
		showProgress bool
		verboseLevel int
		debugFlags   string
	)

	cmd := &cobra.Command{
		Use:   "dirhash <directory>",
		Short: "Produce a checksum, similar to a hash, for directories",
		Long: `dirhash recursively fingerprints a directory tree. Two trees holding
identical file contents produce identical fingerprints regardless of file
names, directory names, or traversal order; only byte content participates.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			// Flags win over config file values over built-in defaults.
			checksumCfg := cfg.GetChecksumConfig()
			if !cmd.Flags().Changed("algo") {
				algo = checksumCfg.Algorithm
			}
			if !cmd.Flags().Changed("chunksize") {
				chunkSize = checksumCfg.ChunkSize
			}
			resolveSymlinks := cfg.GetSymlinkConfig().Resolve
			if cmd.Flags().Changed("no-symlinks") {
				resolveSymlinks = !noSymlinks
			}

			verboseCfg := cfg.GetVerboseConfig()
			if !cmd.Flags().Changed("verbose") {
				verboseLevel = verboseCfg.Level
			}
			if !cmd.Flags().Changed("debug") {
				debugFlags = verboseCfg.Debug
			}
			dirhash.SetVerboseLevel(verboseLevel)
			dirhash.SetDebugFlags(debugFlags)

			cache := dirhash.NewCache()
			if readCache != "" {
				seeded, err := dirhash.LoadCacheFile(readCache)
				if err != nil {
					return err
				}
				if !seeded.IsEmpty() {
					if err := cache.Merge(seeded); err != nil {
						return fmt.Errorf("failed to merge cache from %s: %w", readCache, err)
					}
					dirhash.VerboseLog(1, "seeded cache with %d entries from %s", seeded.Len(), readCache)
				}
			}

			opts := dirhash.Options{
				ChunkSize:       chunkSize,
				Algorithm:       algo,
				ResolveSymlinks: resolveSymlinks,
			}

			var bar *progressbar.ProgressBar
			if showProgress {
				bar = newHashingBar()
				opts.OnProgress = func(n int64) {
					_ = bar.Add64(n)
				}
			}

			digest, err := dirhash.Fingerprint(args[0], opts, cache)
			if bar != nil {
				_ = bar.Finish()
				fmt.Fprintln(os.Stderr)
			}
			if err != nil {
				return err
			}

			if writeCache != "" {
				if err := dirhash.SaveCacheFile(cache, writeCache); err != nil {
					return err
				}
				dirhash.VerboseLog(1, "wrote %d cache entries to %s", cache.Len(), writeCache)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", digest.Hex())
			return nil
		},
	}

	cmd.Flags().IntVarP(&chunkSize, "chunksize", "c", dirhash.DefaultChunkSize, "Maximum bytes of a file to read into RAM at once")
	cmd.Flags().StringVarP(&algo, "algo", "a", dirhash.DefaultAlgorithm, "Hash algorithm (md5, sha1, sha256, sha384, sha512)")
	cmd.Flags().BoolVar(&noSymlinks, "no-symlinks", false, "Treat symlinks as if they don't exist")
	cmd.Flags().StringVar(&writeCache, "write-cache", "", "Write the path->digest cache as JSON to this file")
	cmd.Flags().StringVar(&readCache, "read-cache", "", "Seed the traversal cache from a previously written cache file")
	cmd.Flags().StringVar(&configPath, "config", "", "Configuration file path")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Show hashing progress on stderr")
	cmd.Flags().CountVarP(&verboseLevel, "verbose", "v", "Increase verbosity (repeatable)")
	cmd.Flags().StringVar(&debugFlags, "debug", "", "Comma-separated debug flags (cache, traversal)")

	return cmd
}

// loadConfig resolves the effective configuration: an explicit --config path,
// otherwise the per-user default location, otherwise built-in defaults.
func loadConfig(explicitPath string) (*dirhash.Config, error) {
	path := explicitPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			// No home directory: fall back to built-in defaults.
			return dirhash.LoadConfig("")
		}
		path = filepath.Join(home, ".config", "dirhash", "config")
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return dirhash.LoadConfig(path)
}

func newHashingBar() *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("hashing"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(120*time.Millisecond),
	)
}
