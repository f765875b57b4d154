package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"cuealign/internal/captions"
	"cuealign/internal/logging"
	"cuealign/internal/pipeline"
	"cuealign/internal/validate"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "validate <project>",
		Short: "Re-check a project's written captions against the source",
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
			project := args[0]

			source, err := captions.ParseFile(filepath.Join(cfg.Paths.InputsDir, project+".srt"))
			if err != nil {
				return fmt.Errorf("read source captions: %w", err)
			}
			outputs := pipeline.New(cfg, nil, logging.NewNop()).OutputPaths(project)
			written, err := captions.ParseFile(outputs.Captions)
			if err != nil {
				return fmt.Errorf("read written captions: %w", err)
			}

			validator := validate.New(validate.Options{
				EntryCountTolerance:       cfg.Validation.EntryCountTolerance,
				TextSimilarityMin:         cfg.Validation.TextSimilarityMin,
				AudioDurationToleranceSec: cfg.Validation.AudioDurationToleranceSec,
			}, logger)
			report := validator.CompareCaptions(source.Entries, written.Entries)

			if jsonOutput {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, check := range report.Checks {
					fmt.Fprintf(out, "%-16s %-4s %s\n", check.Name, check.Status, check.Detail)
				}
				fmt.Fprintf(out, "Verdict: %s\n", report.Verdict)
			}
			if report.Failed() {
				return fmt.Errorf("validation failed for %s", project)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the validation report as JSON")
	return cmd
}
