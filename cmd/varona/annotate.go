package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/varona/internal/ensembl"
	"github.com/inodb/varona/internal/maf"
	"github.com/inodb/varona/internal/pipeline"
	"github.com/inodb/varona/internal/store"
)

func newAnnotateCmd(logLevel *string) *cobra.Command {
	var (
		assemblyName string
		mafName      string
		chunkSize    int
		retries      int
		timeoutSecs  int
		skipVEP      bool
		duckdbPath   string
	)

	cmd := &cobra.Command{
		Use:   "annotate <input-vcf> <output-csv>",
		Short: "Annotate a VCF file",
		Long: `Annotate a VCF file by joining locally extracted per-variant statistics
with consequence annotations from the Ensembl VEP REST API.`,
		Example: `  varona annotate input.vcf output.csv
  varona annotate --assembly GRCh38 --maf FR input.vcf output.csv
  varona annotate --duckdb results.db input.vcf output.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Config file and VARONA_* env values fill in flags the
			// user didn't set explicitly.
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			assemblyName = viper.GetString("assembly")
			mafName = viper.GetString("maf")
			chunkSize = viper.GetInt("chunk-size")
			retries = viper.GetInt("retries")
			timeoutSecs = viper.GetInt("timeout")

			logger, err := buildLogger(*logLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			assembly, err := ensembl.ParseAssembly(assemblyName)
			if err != nil {
				return err
			}
			mafMethod, err := maf.ParseMethod(mafName)
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				MAFMethod: mafMethod,
				Assembly:  assembly,
				Timeout:   time.Duration(timeoutSecs) * time.Second,
				Retries:   retries,
				ChunkSize: chunkSize,
				SkipVEP:   skipVEP,
				Logger:    logger,
			}

			inputVCF, outputCSV := args[0], args[1]
			logger.Info("starting annotation",
				zap.String("input", inputVCF),
				zap.Stringer("assembly", assembly),
				zap.Stringer("maf", mafMethod),
			)

			combined, err := pipeline.Annotate(context.Background(), inputVCF, opts)
			if err != nil {
				return err
			}

			logger.Info("writing CSV file", zap.String("path", outputCSV))
			if err := combined.WriteCSVFile(outputCSV); err != nil {
				return err
			}

			if duckdbPath != "" && !skipVEP {
				s, err := store.Open(duckdbPath)
				if err != nil {
					return err
				}
				defer s.Close()
				if err := s.WriteTable(context.Background(), combined); err != nil {
					return fmt.Errorf("persist to duckdb: %w", err)
				}
				logger.Info("persisted annotations", zap.String("path", duckdbPath))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&assemblyName, "assembly", "GRCh37",
		"Genome assembly used in the Ensembl VEP API: GRCh37 or GRCh38")
	cmd.Flags().StringVar(&mafName, "maf", "SAMPLES",
		fmt.Sprintf("MAF calculation method: %v", maf.MethodNames()))
	cmd.Flags().IntVar(&chunkSize, "chunk-size", ensembl.MaxChunk,
		"Variants per VEP API request (max 200)")
	cmd.Flags().IntVar(&retries, "retries", ensembl.DefaultRetries,
		"Retries per chunk after a 429 response")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", 300,
		"VEP API request timeout in seconds")
	cmd.Flags().BoolVar(&skipVEP, "skip-vep", false,
		"Skip the VEP API and emit only locally extracted columns")
	cmd.Flags().StringVar(&duckdbPath, "duckdb", "",
		"Also persist the combined table to a DuckDB database at this path")

	return cmd
}
