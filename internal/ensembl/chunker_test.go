package ensembl

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRowSource yields canned rows, mimicking vcf.RawReader.
type fakeRowSource struct {
	rows [][]string
	pos  int
}

func (f *fakeRowSource) Next() ([]string, error) {
	if f.pos >= len(f.rows) {
		return nil, nil
	}
	row := f.rows[f.pos]
	f.pos++
	return row, nil
}

func (f *fakeRowSource) Close() error { return nil }

func makeRows(n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{
			"1", fmt.Sprintf("%d", 1000+i), "rs123", "A", "G", "2965", "PASS", "TC=160;TR=157",
			"GT", "0/1",
		}
	}
	return rows
}

func TestLocusQuery_MasksFixedColumns(t *testing.T) {
	query, err := LocusQuery(makeRows(1)[0])
	require.NoError(t, err)

	tokens := strings.Split(query, " ")
	require.Len(t, tokens, 8)
	for _, col := range []int{2, 5, 6, 7} {
		assert.Equal(t, ".", tokens[col], "column %d", col)
	}
	assert.Equal(t, "1", tokens[0])
	assert.Equal(t, "1000", tokens[1])
	assert.Equal(t, "A", tokens[3])
	assert.Equal(t, "G", tokens[4])
}

func TestLocusQuery_ShortRow(t *testing.T) {
	_, err := LocusQuery([]string{"1", "1000", ".", "A"})
	require.Error(t, err)
}

func TestChunkQueries_Partitioning(t *testing.T) {
	tests := []struct {
		rows    int
		size    int
		lengths []int
	}{
		{5, 2, []int{2, 2, 1}},
		{5, 5, []int{5}},
		{5, 3, []int{3, 2}},
		{4, 2, []int{2, 2}},
		{0, 2, nil},
	}

	for _, tt := range tests {
		chunks, err := ChunkQueries(&fakeRowSource{rows: makeRows(tt.rows)}, tt.size)
		require.NoError(t, err)
		require.Len(t, chunks, len(tt.lengths), "rows=%d size=%d", tt.rows, tt.size)
		for i, n := range tt.lengths {
			assert.Len(t, chunks[i], n, "rows=%d size=%d chunk=%d", tt.rows, tt.size, i)
		}
	}
}

func TestChunkQueries_PreservesOrder(t *testing.T) {
	chunks, err := ChunkQueries(&fakeRowSource{rows: makeRows(5)}, 2)
	require.NoError(t, err)

	var positions []string
	for _, chunk := range chunks {
		for _, q := range chunk {
			positions = append(positions, strings.Split(q, " ")[1])
		}
	}
	assert.Equal(t, []string{"1000", "1001", "1002", "1003", "1004"}, positions)
}

func TestChunkQueries_DefaultSize(t *testing.T) {
	chunks, err := ChunkQueries(&fakeRowSource{rows: makeRows(MaxChunk + 1)}, 0)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], MaxChunk)
	assert.Len(t, chunks[1], 1)
}
