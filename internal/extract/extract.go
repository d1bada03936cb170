// Package extract flattens variant records and VEP API response items
// into flat rows.
//
// Both extractors are swappable callbacks: the pipeline only depends on
// their signatures, so alternative field layouts can be dropped in
// without touching the batching or join logic.
package extract

import (
	"fmt"
	"strings"

	"github.com/inodb/varona/internal/vcf"
)

// ColumnFunc computes one output column from a variant record.
type ColumnFunc func(*vcf.Variant) (interface{}, error)

// NamedColumn pairs an output column name with its computation.
type NamedColumn struct {
	Name string
	Fn   ColumnFunc
}

// RecordFunc turns one variant record into a flat row.
type RecordFunc func(*vcf.Variant) (map[string]interface{}, error)

// ResponseFunc turns one VEP API response item into a flat row.
type ResponseFunc func(map[string]interface{}) (map[string]interface{}, error)

// PlatypusRecord extracts a flat row from a Platypus-style VCF record.
//
// Extracted columns:
//
//	contig             record chromosome
//	pos                1-based position
//	ref                reference allele
//	alt                comma-joined alternate alleles
//	sequence_depth     INFO TC (total coverage)
//	max_variant_reads  max over INFO TR (per-allele supporting reads)
//	variant_read_pct   max_variant_reads / sequence_depth * 100
//
// plus one column per additional NamedColumn, computed from the record.
// Extraction is all-or-nothing: any error discards the row and aborts.
func PlatypusRecord(v *vcf.Variant, addl ...NamedColumn) (map[string]interface{}, error) {
	row := make(map[string]interface{}, 8+len(addl))
	row["contig"] = v.Chrom
	row["pos"] = v.Pos
	row["ref"] = v.Ref
	row["alt"] = v.AltString()

	depth, err := v.InfoInt("TC") // in some VCFs this is "DP"
	if err != nil {
		return nil, err
	}
	row["sequence_depth"] = depth

	// For multiallelic sites TR lists the reads supporting each allele,
	// so the max is taken.
	reads, err := v.InfoInts("TR")
	if err != nil {
		return nil, err
	}
	maxReads := reads[0]
	for _, r := range reads[1:] {
		if r > maxReads {
			maxReads = r
		}
	}
	row["max_variant_reads"] = maxReads

	if depth == 0 {
		return nil, fmt.Errorf("zero sequence depth at %s:%d", v.Chrom, v.Pos)
	}
	row["variant_read_pct"] = float64(maxReads) / float64(depth) * 100

	for _, col := range addl {
		val, err := col.Fn(v)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		row[col.Name] = val
	}
	return row, nil
}

// VEPResponse extracts a flat row from one VEP API response item.
//
// Extracted columns:
//
//	contig         seq_region_name
//	pos            start
//	ref            allele_string (first '/'-separated allele)
//	alt            allele_string (remaining alleles, comma-joined)
//	type           variant_class
//	effect         most_severe_consequence
//	gene_name      transcript_consequences[0].gene_symbol
//	gene_id        transcript_consequences[0].gene_id
//	transcript_id  transcript_consequences[0].transcript_id
//
// An absent transcript_consequences list is normal (e.g. intergenic
// variants) and yields nil gene and transcript columns. Any other
// missing field is fatal.
func VEPResponse(item map[string]interface{}) (map[string]interface{}, error) {
	row := make(map[string]interface{}, 9)

	contig, err := stringField(item, "seq_region_name")
	if err != nil {
		return nil, err
	}
	row["contig"] = contig

	pos, err := intField(item, "start")
	if err != nil {
		return nil, err
	}
	row["pos"] = pos

	alleleString, err := stringField(item, "allele_string")
	if err != nil {
		return nil, err
	}
	alleles := strings.Split(alleleString, "/")
	row["ref"] = alleles[0]
	row["alt"] = strings.Join(alleles[1:], ",")

	variantClass, err := stringField(item, "variant_class")
	if err != nil {
		return nil, err
	}
	row["type"] = variantClass

	effect, err := stringField(item, "most_severe_consequence")
	if err != nil {
		return nil, err
	}
	row["effect"] = effect

	consequences, ok := item["transcript_consequences"].([]interface{})
	if !ok || len(consequences) == 0 {
		row["gene_name"] = nil
		row["gene_id"] = nil
		row["transcript_id"] = nil
		return row, nil
	}

	first, ok := consequences[0].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("malformed transcript_consequences entry")
	}
	geneName, err := stringField(first, "gene_symbol")
	if err != nil {
		return nil, fmt.Errorf("transcript_consequences[0]: %w", err)
	}
	geneID, err := stringField(first, "gene_id")
	if err != nil {
		return nil, fmt.Errorf("transcript_consequences[0]: %w", err)
	}
	transcriptID, err := stringField(first, "transcript_id")
	if err != nil {
		return nil, fmt.Errorf("transcript_consequences[0]: %w", err)
	}
	row["gene_name"] = geneName
	row["gene_id"] = geneID
	row["transcript_id"] = transcriptID
	return row, nil
}

func stringField(item map[string]interface{}, key string) (string, error) {
	raw, ok := item[key]
	if !ok {
		return "", fmt.Errorf("response item missing %q", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("response item field %q is not a string", key)
	}
	return s, nil
}

func intField(item map[string]interface{}, key string) (int64, error) {
	raw, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("response item missing %q", key)
	}
	switch n := raw.(type) {
	case float64: // encoding/json decodes numbers as float64
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("response item field %q is not a number", key)
	}
}
