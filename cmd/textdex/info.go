package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/textdex"
)

func newInfoCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show statistics for the index directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, logger, engine, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			defer engine.Close()

			info, err := engine.CurrentIndexInfo(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			return printInfo(cmd.OutOrStdout(), info)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func printInfo(w io.Writer, info textdex.IndexInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct{ k, v string }{
		{"path", info.Path},
		{"documents", fmt.Sprint(info.DocCount)},
		{"size", humanBytes(uint64(max(info.SizeBytes, 0)))}, //nolint:gosec // clamped
		{"created", formatTime(info.CreatedAt)},
		{"accessed", formatTime(info.AccessedAt)},
		{"modified", formatTime(info.ModifiedAt)},
		{"volume total", humanBytes(info.VolumeTotalBytes)},
		{"volume free", humanBytes(info.VolumeFreeBytes)},
		{"volume available", humanBytes(info.VolumeAvailableBytes)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", r.k, r.v)
	}
	return tw.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.RFC3339)
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
