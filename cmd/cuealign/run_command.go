package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cuealign/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run <project>",
		Short: "Run the full alignment pipeline for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			outcome, err := pipeline.New(cfg, nil, logger).Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				if err := writeJSON(cmd, outcome.Report); err != nil {
					return err
				}
			} else {
				printRunSummary(cmd.OutOrStdout(), outcome)
			}
			if outcome.Report.Failed() {
				return fmt.Errorf("validation failed; outputs kept in %s for inspection", cfg.Paths.OutputDir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the validation report as JSON")
	return cmd
}

func printRunSummary(out io.Writer, outcome *pipeline.Outcome) {
	summary := outcome.Timeline.Summarize()
	fmt.Fprintf(out, "Project:   %s\n", outcome.Project)
	fmt.Fprintf(out, "Segments:  %d (%d scene starts)\n", summary.Entries, summary.Scenes)
	fmt.Fprintf(out, "Duration:  %s (%d frames)\n",
		outcome.Timeline.Rate.Timecode(summary.TotalFrames), summary.TotalFrames)
	fmt.Fprintf(out, "Captions:  %d assigned (matched %d, apportioned %d, round-robin %d)\n",
		outcome.Allocation.Assigned(),
		outcome.Allocation.TierCounts[0],
		outcome.Allocation.TierCounts[1],
		outcome.Allocation.TierCounts[2])
	for _, warning := range outcome.ParseWarnings {
		fmt.Fprintf(out, "Parse:     %s\n", warning)
	}
	for _, warning := range outcome.Report.Warnings {
		fmt.Fprintf(out, "Warning:   %s\n", warning)
	}
	fmt.Fprintf(out, "Outputs:   %s\n", outcome.Outputs.Captions)
	fmt.Fprintf(out, "           %s\n", outcome.Outputs.Record)
	fmt.Fprintf(out, "           %s\n", outcome.Outputs.Exchange)
	fmt.Fprintf(out, "           %s\n", outcome.Outputs.Report)
	fmt.Fprintf(out, "Verdict:   %s\n", outcome.Report.Verdict)
}
