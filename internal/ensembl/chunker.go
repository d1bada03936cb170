package ensembl

import (
	"fmt"
	"strings"

	"github.com/inodb/varona/internal/vcf"
)

// MaxChunk is the most variants the VEP region endpoint accepts per request.
const MaxChunk = 200

// maskColumns are the 0-based VCF columns (ID, QUAL, FILTER, INFO)
// replaced with '.' before querying the API.
var maskColumns = [...]int{2, 5, 6, 7}

// LocusQuery converts one raw VCF row into a region query string: the
// first 8 columns space-joined, with the masked columns blanked out.
func LocusQuery(fields []string) (string, error) {
	if len(fields) < 8 {
		return "", fmt.Errorf("vcf row has %d columns, need at least 8", len(fields))
	}
	masked := make([]string, 8)
	copy(masked, fields[:8])
	for _, col := range maskColumns {
		masked[col] = "."
	}
	return strings.Join(masked, " "), nil
}

// ChunkQueries drains a raw row source into bounded batches of locus
// query strings. Every chunk holds up to size queries in source order;
// the final chunk may be shorter.
func ChunkQueries(src vcf.RowSource, size int) ([][]string, error) {
	if size <= 0 {
		size = MaxChunk
	}
	var chunks [][]string
	chunk := make([]string, 0, size)
	for {
		fields, err := src.Next()
		if err != nil {
			return nil, err
		}
		if fields == nil {
			break
		}
		query, err := LocusQuery(fields)
		if err != nil {
			return nil, err
		}
		chunk = append(chunk, query)
		if len(chunk) == size {
			chunks = append(chunks, chunk)
			chunk = make([]string, 0, size)
		}
	}
	if len(chunk) > 0 {
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
