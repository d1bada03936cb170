package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/varona/internal/split"
)

func newSplitCmd(logLevel *string) *cobra.Command {
	var (
		outDir    string
		chunkSize int
		nChunks   int
	)

	cmd := &cobra.Command{
		Use:   "split <input-vcf>",
		Short: "Split a VCF file into smaller pieces",
		Long: `Split a VCF file into smaller gzipped VCF files, each carrying the
full header. Exactly one of --chunk-size or --n-chunks must be set.`,
		Example: `  varona split --chunk-size 1000 input.vcf
  varona split --n-chunks 8 --out-dir pieces/ input.vcf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (chunkSize > 0) == (nChunks > 0) {
				return fmt.Errorf("exactly one of --chunk-size and --n-chunks must be set")
			}
			logger, err := buildLogger(*logLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			paths, err := split.Split(args[0], outDir, chunkSize, nChunks, logger)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Println(p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", ".",
		"Directory to save the split VCF files")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0,
		"Number of records per piece")
	cmd.Flags().IntVar(&nChunks, "n-chunks", 0,
		"Number of pieces to split the VCF into")

	return cmd
}
