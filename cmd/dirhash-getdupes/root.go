package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	dirhash "dirhash/pkg"
)

func newRootCommand() *cobra.Command {
	var outfile string

	cmd := &cobra.Command{
		Use:   "dirhash-getdupes <cachefile>",
		Short: "Report duplicate digests in a dirhash cache file",
		Long: `dirhash-getdupes loads a path->digest cache written by dirhash --write-cache
and reports every digest shared by two or more paths, as a JSON object
mapping the digest to the ordered list of paths. No filesystem content is
re-read; the report reflects the snapshot as persisted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := dirhash.LoadCacheFile(args[0])
			if err != nil {
				return err
			}

			groups := dirhash.FindDuplicates(cache.Snapshot())
			dirhash.VerboseLog(1, "found %d duplicate groups in %d entries", len(groups), cache.Len())

			report, err := dirhash.DuplicateReport(groups)
			if err != nil {
				return fmt.Errorf("failed to render duplicate report: %w", err)
			}
			report = append(report, '\n')

			if outfile == "" || outfile == "-" {
				_, err = cmd.OutOrStdout().Write(report)
				return err
			}

			if err := os.WriteFile(outfile, report, 0644); err != nil {
				return fmt.Errorf("failed to write report to %s: %w", outfile, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outfile, "outfile", "o", "-", "Write the report to this file ('-' for stdout)")

	return cmd
}
