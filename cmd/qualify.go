package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-qualifier/internal/leadfile"
	"github.com/sells-group/lead-qualifier/internal/model"
)

var (
	qualifyInput  string
	qualifyOutput string
)

var qualifyCmd = &cobra.Command{
	Use:   "qualify",
	Short: "Qualify leads from a JSON, CSV or XLSX file",
	RunE: func(cmd *cobra.Command, args []string) error {
		leads, err := leadfile.Read(cmd.Context(), qualifyInput)
		if err != nil {
			return err
		}
		if len(leads) == 0 {
			return eris.Errorf("no leads found in %s", qualifyInput)
		}
		if cfg.Qualify.MaxBatchSize > 0 && len(leads) > cfg.Qualify.MaxBatchSize {
			return eris.Errorf("%d leads exceed qualify.max_batch_size %d", len(leads), cfg.Qualify.MaxBatchSize)
		}

		eng, err := initEngine(cfg, "qualify")
		if err != nil {
			return err
		}

		results := eng.Orchestrator.Qualify(cmd.Context(), leads)

		out := cmd.OutOrStdout()
		if qualifyOutput != "" {
			f, err := os.Create(qualifyOutput)
			if err != nil {
				return eris.Wrapf(err, "create %s", qualifyOutput)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}
		if err := writeResults(out, results); err != nil {
			return err
		}

		zap.L().Info("qualify complete",
			zap.String("input", qualifyInput),
			zap.Int("leads", len(results)),
		)
		return nil
	},
}

func writeResults(w io.Writer, results []model.QualifiedLead) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return eris.Wrap(err, "encode results")
	}
	return nil
}

func init() {
	qualifyCmd.Flags().StringVarP(&qualifyInput, "input", "i", "", "lead file (.json, .csv or .xlsx)")
	qualifyCmd.Flags().StringVarP(&qualifyOutput, "output", "o", "", "write results to this file instead of stdout")
	_ = qualifyCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(qualifyCmd)
}
