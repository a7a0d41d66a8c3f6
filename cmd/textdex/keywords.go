package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/textdex"
)

func newKeywordsCmd(opts *rootOptions) *cobra.Command {
	var (
		defaults  bool
		stopWords []string
	)
	cmd := &cobra.Command{
		Use:   "keywords <text>",
		Short: "Extract distinct keywords with the configured analyzer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, engine, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			defer engine.Close()

			terms, err := engine.Keywords(strings.Join(args, " "), textdex.KeywordOptions{
				DefaultStopWords: defaults,
				StopWords:        stopWords,
			})
			if err != nil {
				return err
			}
			for _, t := range terms {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&defaults, "stop-words", false, "Drop the analyzer language's default stop words")
	cmd.Flags().StringSliceVar(&stopWords, "exclude", nil, "Additional words to drop")
	return cmd
}
