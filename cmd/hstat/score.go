package main

import (
	"fmt"
	"io"
	"os"

	"gohstat/app"
	"gohstat/internal/report"

	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	var (
		req        app.ScoreRequest
		format     string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score models by mean Poisson deviance and pseudo R-squared",
		Long: `Evaluate count or rate models on a data file holding the observed target.
Each model is compared with the reference model: pseudo R-squared is the
relative reduction of the mean Poisson deviance.

Example: hstat score --data claims.csv --target claims --weights exposure --reference null.yaml --model glm.yaml --model boosted.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reportFormat, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			c, err := setup(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			scores, err := c.InteractionService.ScoreFromFiles(cmd.Context(), req)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if outputPath != "" {
				file, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer file.Close()
				out = file
			}
			return report.RenderScores(out, reportFormat, scores)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.DataPath, "data", "", "CSV, XLSX or JSON records file with the observed target")
	flags.StringVar(&req.Sheet, "sheet", "", "XLSX sheet to read (default: first sheet)")
	flags.StringVar(&req.JSONPath, "json-path", "", "gjson path to the records in a JSON data file")
	flags.StringVar(&req.TargetColumn, "target", "", "Column holding the observed counts or rates")
	flags.StringVar(&req.WeightColumn, "weights", "", "Column holding sample weights")
	flags.StringVar(&req.ReferencePath, "reference", "", "Reference model specification, usually intercept only")
	flags.StringArrayVar(&req.ModelPaths, "model", nil, "Model specification to score (repeatable)")
	flags.StringVar(&format, "format", "text", "Output format: text, markdown, html or json")
	flags.StringVarP(&outputPath, "output", "o", "", "Write the scores to a file instead of stdout")
	cmd.MarkFlagRequired("data")
	cmd.MarkFlagRequired("target")
	cmd.MarkFlagRequired("reference")
	return cmd
}
