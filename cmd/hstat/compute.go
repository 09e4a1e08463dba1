package main

import (
	"fmt"
	"io"
	"os"

	"gohstat/app"
	"gohstat/internal/report"

	"github.com/spf13/cobra"
)

func newComputeCmd() *cobra.Command {
	var (
		dataPath     string
		modelPath    string
		sheet        string
		jsonPath     string
		features     []string
		nMax         int
		seed         uint64
		weightColumn string
		eps          float64
		workers      int
		format       string
		outputPath   string
		top          int
		persist      bool
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute pairwise H-statistics for a model over a data file",
		Long: `Compute the H-statistic of every feature pair for the model described in a
YAML or JSON specification, evaluated over a CSV, XLSX or JSON records file.

Example: hstat compute --data sales.csv --model model.yaml --features price,season,region --seed 7 --format markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reportFormat, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			c, err := setup(cmd.Context(), persist)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			req := app.FileRequest{
				DataPath:     dataPath,
				ModelPath:    modelPath,
				Sheet:        sheet,
				JSONPath:     jsonPath,
				WeightColumn: weightColumn,
				FeatureNames: features,
				Persist:      persist,
			}
			flags := cmd.Flags()
			if flags.Changed("n-max") {
				req.NMax = &nMax
			}
			if flags.Changed("seed") {
				req.Seed = &seed
			}
			if flags.Changed("eps") {
				req.Eps = &eps
			}
			if flags.Changed("workers") {
				req.Workers = &workers
			}

			resp, err := c.InteractionService.ComputeFromFiles(cmd.Context(), req)
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

			meta := report.Meta{Source: dataPath, RowCount: resp.Run.RowCount, Top: top}
			if resp.Persisted {
				meta.RunID = resp.Run.ID.String()
			}
			return report.Render(out, reportFormat, resp.Result, meta)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&dataPath, "data", "", "CSV or XLSX file with a header row, or a JSON array of records")
	flags.StringVar(&modelPath, "model", "", "Model specification (YAML or JSON)")
	flags.StringVar(&sheet, "sheet", "", "XLSX sheet to read (default: first sheet)")
	flags.StringVar(&jsonPath, "json-path", "", "gjson path to the records in a JSON data file (default: the document)")
	flags.StringSliceVar(&features, "features", nil, "Feature columns to analyze (default: all)")
	flags.IntVar(&nMax, "n-max", 500, "Rows kept by subsampling")
	flags.Uint64Var(&seed, "seed", 0, "Subsampling seed (default: random, recorded in the run)")
	flags.StringVar(&weightColumn, "weights", "", "Column holding sample weights; removed from the features")
	flags.Float64Var(&eps, "eps", 1e-10, "Numerators below this are set to 0")
	flags.IntVar(&workers, "workers", 1, "Partial dependences computed concurrently")
	flags.StringVar(&format, "format", "text", "Output format: text, markdown, html or json")
	flags.StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	flags.IntVar(&top, "top", 0, "List only the strongest pairs per output (0: all)")
	flags.BoolVar(&persist, "persist", false, "Store the run in the database")
	cmd.MarkFlagRequired("data")
	cmd.MarkFlagRequired("model")

	return cmd
}
