package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"cuealign/internal/logging"
	"cuealign/internal/pipeline"
)

func newTimelineCommand(ctx *commandContext) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "timeline <project>",
		Short: "Show a project's written timeline record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			outputs := pipeline.New(cfg, nil, logging.NewNop()).OutputPaths(args[0])

			file, err := os.Open(outputs.Record)
			if err != nil {
				return fmt.Errorf("open timeline record (run the pipeline first): %w", err)
			}
			defer file.Close()
			rows, err := csv.NewReader(file).ReadAll()
			if err != nil {
				return fmt.Errorf("read timeline record: %w", err)
			}
			if len(rows) < 2 {
				return fmt.Errorf("timeline record %s is empty", outputs.Record)
			}

			out := cmd.OutOrStdout()
			if plain || !isatty.IsTerminal(os.Stdout.Fd()) {
				for _, row := range rows {
					fmt.Fprintln(out, strings.Join(row, "\t"))
				}
				return nil
			}

			aligns := []columnAlignment{
				alignRight, alignLeft, alignLeft, alignLeft,
				alignRight, alignRight, alignLeft, alignRight,
				alignLeft, alignLeft,
			}
			fmt.Fprintln(out, renderTable(rows[0], rows[1:], aligns))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print tab-separated values instead of a table")
	return cmd
}
