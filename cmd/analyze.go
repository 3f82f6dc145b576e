package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	analyzeOutput string
	analyzeDryRun bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full contact intelligence pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initPipeline(ctx, cfg, analyzeDryRun)
		if err != nil {
			return err
		}
		defer e.Close()

		result, err := e.Pipeline.Run(ctx)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(result.Report, "", "  ")
		if err != nil {
			return eris.Wrap(err, "cmd: marshal report")
		}

		if analyzeOutput != "" {
			if err := os.WriteFile(analyzeOutput, data, 0o644); err != nil {
				return eris.Wrapf(err, "cmd: write report to %s", analyzeOutput)
			}
			zap.L().Info("report written", zap.String("path", analyzeOutput))
			return nil
		}

		fmt.Println(string(data))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the report JSON to a file instead of stdout")
	analyzeCmd.Flags().BoolVar(&analyzeDryRun, "dry-run", false, "skip persistence; analyze and report only")
	rootCmd.AddCommand(analyzeCmd)
}
