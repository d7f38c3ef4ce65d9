package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"msgc/internal/driver"
	"msgc/internal/layoutfmt"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [flags] <schema.toml|directory>",
	Short: "Plan message layouts for a schema file or directory",
	Long:  `Compute field offsets, hasbit indexes and oneof slots for every message in the given schema file, or in all *.toml files within a directory`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLayout,
}

func init() {
	layoutCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	layoutCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	layoutCmd.Flags().String("ui", "auto", "progress UI for directory processing (auto|on|off)")
	layoutCmd.Flags().Bool("disk-cache", false, "enable persistent disk cache for planned layouts")
}

func runLayout(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format %q (expected pretty|json)", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	useDiskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	colorValue, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	colorOn, err := useColor(colorValue)
	if err != nil {
		return err
	}

	var cache *driver.DiskCache
	if useDiskCache {
		cache, err = driver.OpenDiskCache("msgc")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var results []driver.FileResult
	if info.IsDir() {
		opts := driver.Options{Jobs: jobs, Cache: cache}
		if shouldUseTUI(mode) && format == "pretty" {
			results, err = runPlanWithUI(cmd.Context(), path, opts)
		} else {
			results, err = driver.PlanDir(cmd.Context(), path, opts)
		}
		if err != nil {
			return err
		}
	} else {
		results = []driver.FileResult{driver.PlanFile(path, cache)}
	}

	failed := false
	for i, res := range results {
		if res.Err != nil {
			failed = true
			fmt.Fprintf(os.Stderr, "msgc: %v\n", res.Err)
			continue
		}
		switch format {
		case "json":
			if err := layoutfmt.JSON(os.Stdout, res.Path, res.Exports, layoutfmt.JSONOpts{Indent: true}); err != nil {
				return err
			}
		default:
			if i > 0 {
				fmt.Println()
			}
			layoutfmt.Pretty(os.Stdout, res.Path, res.Exports, layoutfmt.PrettyOpts{Color: colorOn})
		}
	}
	if failed {
		os.Exit(1)
	}
	return nil
}
