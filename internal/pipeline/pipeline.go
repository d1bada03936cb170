// Package pipeline runs the full annotation pipeline: local extraction
// from a Platypus-style VCF, chunked VEP API annotation, and the join
// of both row streams into one output table.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/inodb/varona/internal/bcftools"
	"github.com/inodb/varona/internal/ensembl"
	"github.com/inodb/varona/internal/extract"
	"github.com/inodb/varona/internal/maf"
	"github.com/inodb/varona/internal/table"
	"github.com/inodb/varona/internal/vcf"
)

// VCFColumns is the schema of the locally extracted table.
var VCFColumns = []string{
	"contig", "pos", "ref", "alt",
	"sequence_depth", "max_variant_reads", "variant_read_pct", "maf",
}

// APIColumns is the schema of the table built from VEP API responses.
var APIColumns = []string{
	"contig", "pos", "ref", "alt",
	"type", "effect", "gene_name", "gene_id", "transcript_id",
}

// JoinKeys is the composite locus key shared by both tables.
var JoinKeys = []string{"contig", "pos", "ref", "alt"}

// Options configures an annotation run.
type Options struct {
	MAFMethod maf.Method
	Assembly  ensembl.Assembly
	Timeout   time.Duration // per-request HTTP timeout
	Retries   int           // 429 retries per chunk
	ChunkSize int           // loci per VEP request, up to ensembl.MaxChunk
	SkipVEP   bool          // return just the VCF-derived table
	Logger    *zap.Logger
	Client    *ensembl.Client // optional override, mainly for tests
}

func (o *Options) fill() {
	if o.Timeout <= 0 {
		o.Timeout = ensembl.DefaultTimeout
	}
	if o.Retries <= 0 {
		o.Retries = ensembl.DefaultRetries
	}
	if o.ChunkSize <= 0 || o.ChunkSize > ensembl.MaxChunk {
		o.ChunkSize = ensembl.MaxChunk
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Client == nil {
		o.Client = ensembl.NewClient(o.Assembly,
			ensembl.WithTimeout(o.Timeout),
			ensembl.WithRetries(o.Retries),
			ensembl.WithLogger(o.Logger),
		)
	}
}

// Annotate reads the VCF at vcfPath and returns the combined table:
// the left join of locally extracted rows and VEP API rows on the
// locus key. Execution is sequential; any record or service error
// aborts the whole run with no partial result.
func Annotate(ctx context.Context, vcfPath string, opts Options) (*table.Table, error) {
	opts.fill()

	extractPath := vcfPath
	if opts.MAFMethod == maf.MethodBcftools {
		processed, cleanup, err := bcftools.FilledVCF(vcfPath, []string{"MAF"})
		if err != nil {
			return nil, fmt.Errorf("bcftools preprocess: %w", err)
		}
		defer cleanup()
		extractPath = processed
	}

	vcfTable, err := extractVCFTable(extractPath, opts.MAFMethod)
	if err != nil {
		return nil, err
	}

	if opts.SkipVEP {
		return vcfTable, nil
	}

	apiTable, err := queryAPITable(ctx, vcfPath, opts)
	if err != nil {
		return nil, err
	}

	return table.LeftJoin(vcfTable, apiTable, JoinKeys...)
}

// extractVCFTable runs the local extraction pass: one row per variant
// record, MAF computed by the selected method.
func extractVCFTable(path string, method maf.Method) (*table.Table, error) {
	parser, err := vcf.NewParser(path)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	mafColumn := extract.NamedColumn{
		Name: "maf",
		Fn: func(v *vcf.Variant) (interface{}, error) {
			return maf.FromMethod(v, method)
		},
	}

	vcfTable := table.New(VCFColumns...)
	for {
		record, err := parser.Next()
		if err != nil {
			return nil, err
		}
		if record == nil {
			break
		}
		row, err := extract.PlatypusRecord(record, mafColumn)
		if err != nil {
			return nil, fmt.Errorf("extract %s:%d: %w", record.Chrom, record.Pos, err)
		}
		if err := vcfTable.Append(row); err != nil {
			return nil, err
		}
	}
	return vcfTable, nil
}

// queryAPITable runs the API pass: an independent raw read of the same
// file into chunks, one request per chunk, flattened rows appended in
// chunk order.
func queryAPITable(ctx context.Context, path string, opts Options) (*table.Table, error) {
	raw, err := vcf.NewRawReader(path)
	if err != nil {
		return nil, err
	}
	chunks, err := ensembl.ChunkQueries(raw, opts.ChunkSize)
	raw.Close()
	if err != nil {
		return nil, err
	}

	apiTable := table.New(APIColumns...)
	for i, chunk := range chunks {
		rows, err := opts.Client.Annotate(ctx, chunk, extract.VEPResponse)
		if err != nil {
			return nil, fmt.Errorf("annotate chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if err := apiTable.AppendAll(rows); err != nil {
			return nil, err
		}
		opts.Logger.Info(fmt.Sprintf("processed %d/%d chunks from VEP API", i+1, len(chunks)))
	}
	return apiTable, nil
}
