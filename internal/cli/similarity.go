package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/butina"
	"github.com/hupe1980/butina/similarity"
)

type similarityReport struct {
	Points      int            `yaml:"points"`
	Pairs       int            `yaml:"pairs"`
	Metric      string         `yaml:"metric"`
	Min         float64        `yaml:"min"`
	Max         float64        `yaml:"max"`
	Mean        float64        `yaml:"mean"`
	Cutoff      float64        `yaml:"cutoff"`
	AboveCutoff int            `yaml:"above_cutoff"`
	Neighbors   []neighborPair `yaml:"neighbors,omitempty"`
}

type neighborPair struct {
	A          string  `yaml:"a"`
	B          string  `yaml:"b"`
	Similarity float64 `yaml:"similarity"`
}

func newSimilarityCmd(a *app) *cobra.Command {
	var (
		cutoff    float64
		metric    string
		listPairs bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "similarity <library>",
		Short: "Summarize pairwise similarities of a library",
		Long: `Stream every fingerprint pair of a library and summarize the similarity
distribution. Useful for choosing a clustering threshold.

Examples:
  butina similarity compounds.fps
  butina similarity compounds.fps --cutoff 0.8 --pairs --limit 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cutoff < 0 || cutoff > 1 {
				return fmt.Errorf("cutoff must be between 0 and 1, got %g", cutoff)
			}
			if !cmd.Flags().Changed("metric") {
				metric = a.cfg.Clustering.Metric
			}
			m, err := similarity.ParseMetric(metric)
			if err != nil {
				return err
			}

			lib, err := a.loadLibrary(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			pairs, err := similarity.Pairs(lib.Store, m)
			if err != nil {
				return err
			}

			report := similarityReport{
				Points: lib.Len(),
				Metric: m.String(),
				Cutoff: cutoff,
				Min:    math.Inf(1),
				Max:    math.Inf(-1),
			}

			var sum float64
			for p := range pairs {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				sim := 1 - p.Distance
				report.Pairs++
				sum += sim
				report.Min = min(report.Min, sim)
				report.Max = max(report.Max, sim)
				if sim < cutoff {
					continue
				}
				report.AboveCutoff++
				if listPairs && (limit <= 0 || len(report.Neighbors) < limit) {
					report.Neighbors = append(report.Neighbors, neighborPair{
						A:          lib.ID(p.I),
						B:          lib.ID(p.J),
						Similarity: sim,
					})
				}
			}

			if report.Pairs == 0 {
				report.Min, report.Max = 0, 0
			} else {
				report.Mean = sum / float64(report.Pairs)
			}

			data, err := yaml.Marshal(report)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&cutoff, "cutoff", 1-butina.DefaultThreshold, "similarity cutoff for counted pairs")
	flags.StringVarP(&metric, "metric", "m", "tanimoto", "similarity metric (tanimoto, dice)")
	flags.BoolVar(&listPairs, "pairs", false, "list the pairs at or above the cutoff")
	flags.IntVar(&limit, "limit", 100, "maximum listed pairs (0 = all)")

	return cmd
}
