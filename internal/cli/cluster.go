package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/butina"
	"github.com/hupe1980/butina/fingerprint"
	"github.com/hupe1980/butina/fpfile"
	"github.com/hupe1980/butina/internal/config"
	butinaprom "github.com/hupe1980/butina/metrics/prometheus"
)

type clusterFlags struct {
	threshold     float64
	cutoff        float64
	metric        string
	workers       int
	blockSize     int
	memoryLimitMB int64
	sortBySize    bool
	noReordering  bool
	output        string
	format        string
}

func newClusterCmd(a *app) *cobra.Command {
	f := &clusterFlags{}

	cmd := &cobra.Command{
		Use:   "cluster <library>",
		Short: "Cluster a fingerprint library",
		Long: `Cluster a fingerprint library with the Butina algorithm.

The result is printed as YAML, or with --format fps the exemplar of every
cluster is written as an FPS library (a diverse representative subset).

Examples:
  butina cluster compounds.fps
  butina cluster compounds.bfp --threshold 0.3 --sort-by-size
  butina cluster s3://libs/chembl.bfp --similarity 0.7 -o s3://libs/chembl-clusters.yaml
  butina cluster minio://libs/zinc.fps --format fps -o reps.fps`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyClusterFlags(cmd, f, &a.cfg)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.runCluster(cmd, args[0], f.output)
		},
	}

	flags := cmd.Flags()
	flags.Float64VarP(&f.threshold, "threshold", "t", butina.DefaultThreshold, "distance threshold in [0, 1]")
	flags.Float64Var(&f.cutoff, "similarity", 1-butina.DefaultThreshold, "similarity cutoff (sets threshold to 1 - cutoff)")
	flags.StringVarP(&f.metric, "metric", "m", "tanimoto", "similarity metric (tanimoto, dice)")
	flags.IntVarP(&f.workers, "workers", "w", 0, "neighbor workers (0 = GOMAXPROCS)")
	flags.IntVar(&f.blockSize, "block-size", 0, "fingerprint pairs per worker block")
	flags.Int64Var(&f.memoryLimitMB, "memory-limit-mb", 0, "memory limit for the neighbor graph (0 = unlimited)")
	flags.BoolVar(&f.sortBySize, "sort-by-size", false, "order clusters by descending size")
	flags.BoolVar(&f.noReordering, "no-reordering", false, "select exemplars by initial neighbor count only")
	flags.StringVarP(&f.output, "output", "o", "-", "output location (- for stdout)")
	flags.StringVarP(&f.format, "format", "f", "", "output format (yaml, fps)")
	cmd.MarkFlagsMutuallyExclusive("threshold", "similarity")

	return cmd
}

// applyClusterFlags lets explicitly set flags override the config file.
func applyClusterFlags(cmd *cobra.Command, f *clusterFlags, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.Clustering.Threshold = f.threshold
	}
	if flags.Changed("similarity") {
		cfg.Clustering.Threshold = 1 - f.cutoff
	}
	if flags.Changed("metric") {
		cfg.Clustering.Metric = f.metric
	}
	if flags.Changed("workers") {
		cfg.Clustering.Workers = f.workers
	}
	if flags.Changed("block-size") {
		cfg.Clustering.BlockSize = f.blockSize
	}
	if flags.Changed("memory-limit-mb") {
		cfg.Clustering.MemoryLimitMB = f.memoryLimitMB
	}
	if flags.Changed("sort-by-size") {
		cfg.Clustering.SortBySize = f.sortBySize
	}
	if flags.Changed("no-reordering") {
		cfg.Clustering.NoReordering = f.noReordering
	}
	if flags.Changed("format") {
		cfg.Output.Format = f.format
	}
}

func (a *app) runCluster(cmd *cobra.Command, input, output string) error {
	ctx := cmd.Context()

	lib, err := a.loadLibrary(ctx, input)
	if err != nil {
		return err
	}

	opts, err := a.cfg.RunOptions()
	if err != nil {
		return err
	}

	collector := butinaprom.NewCollector(a.cfg.Metrics.Namespace)
	opts = append(opts, butina.WithLogger(a.logger), butina.WithMetricsCollector(collector))

	res, runErr := butina.Run(ctx, lib.Store, opts...)

	if a.cfg.Metrics.Textfile != "" {
		if err := collector.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			a.logger.Warn("failed to write metrics textfile", "file", a.cfg.Metrics.Textfile, "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	var data []byte
	switch a.cfg.Output.Format {
	case "fps":
		data, err = exemplarLibrary(lib, res)
	default:
		data, err = yaml.Marshal(newClusterReport(lib, res))
	}
	if err != nil {
		return err
	}

	if output == "" || output == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return a.save(ctx, output, data)
}

type clusterReport struct {
	RunID       string         `yaml:"run_id"`
	Threshold   float64        `yaml:"threshold"`
	Metric      string         `yaml:"metric"`
	Points      int            `yaml:"points"`
	Edges       int            `yaml:"edges"`
	NumClusters int            `yaml:"num_clusters"`
	Singletons  int            `yaml:"singletons"`
	Clusters    []clusterEntry `yaml:"clusters"`
}

type clusterEntry struct {
	ID       int      `yaml:"id"`
	Exemplar string   `yaml:"exemplar"`
	Size     int      `yaml:"size"`
	Members  []string `yaml:"members,flow"`
}

func newClusterReport(lib *fpfile.Library, res *butina.Result) clusterReport {
	report := clusterReport{
		RunID:       res.RunID,
		Threshold:   res.Config.Threshold,
		Metric:      res.Config.Metric.String(),
		Points:      res.NumPoints(),
		Edges:       res.Edges,
		NumClusters: res.Len(),
		Singletons:  res.Singletons(),
		Clusters:    make([]clusterEntry, 0, res.Len()),
	}

	for ord, c := range res.Clusters() {
		members := make([]string, len(c.Members))
		for k, idx := range c.Members {
			members[k] = lib.ID(idx)
		}
		report.Clusters = append(report.Clusters, clusterEntry{
			ID:       ord,
			Exemplar: lib.ID(c.Exemplar),
			Size:     c.Len(),
			Members:  members,
		})
	}

	return report
}

// exemplarLibrary encodes the exemplar of every cluster as FPS, in cluster order.
func exemplarLibrary(lib *fpfile.Library, res *butina.Result) ([]byte, error) {
	exemplars := res.Exemplars()
	fps := make([]*fingerprint.Fingerprint, len(exemplars))
	ids := make([]string, len(exemplars))
	for k, e := range exemplars {
		fps[k] = lib.Store.At(e)
		ids[k] = lib.ID(e)
	}

	store, err := fingerprint.NewStore(fps)
	if err != nil {
		return nil, err
	}
	reps, err := fpfile.NewLibrary(store, ids)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fpfile.WriteFPS(&buf, reps); err != nil {
		return nil, fmt.Errorf("encode exemplars: %w", err)
	}
	return buf.Bytes(), nil
}
