package cli

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/butina/fpfile"
)

func newConvertCmd(a *app) *cobra.Command {
	var compression string

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a library between FPS and BFP",
		Long: `Convert a fingerprint library between the FPS text format and the
compressed BFP binary format. Outputs ending in .fps are written as FPS,
everything else as BFP.

Examples:
  butina convert compounds.fps compounds.bfp
  butina convert compounds.fps s3://libs/compounds.bfp --compression lz4
  butina convert minio://libs/compounds.bfp compounds.fps`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("compression") {
				a.cfg.Output.Compression = compression
			}
			c, err := fpfile.ParseCompression(a.cfg.Output.Compression)
			if err != nil {
				return err
			}

			lib, err := a.loadLibrary(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			data, err := encodeLibrary(args[1], lib, c)
			if err != nil {
				return err
			}

			if err := a.save(cmd.Context(), args[1], data); err != nil {
				return err
			}

			a.logger.Info("library converted", "input", args[0], "output", args[1],
				"fingerprints", lib.Len(), "bytes", len(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&compression, "compression", "zstd", "BFP block compression (none, lz4, zstd)")

	return cmd
}
