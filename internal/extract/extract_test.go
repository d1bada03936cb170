package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/varona/internal/vcf"
)

func platypusVariant() *vcf.Variant {
	return &vcf.Variant{
		Chrom: "1",
		Pos:   1158631,
		Ref:   "A",
		Alts:  []string{"G"},
		Info: map[string]interface{}{
			"TC": "160",
			"TR": "157",
			"FR": "1.0",
		},
	}
}

func TestPlatypusRecord(t *testing.T) {
	row, err := PlatypusRecord(platypusVariant())
	require.NoError(t, err)

	assert.Equal(t, "1", row["contig"])
	assert.Equal(t, int64(1158631), row["pos"])
	assert.Equal(t, "A", row["ref"])
	assert.Equal(t, "G", row["alt"])
	assert.Equal(t, 160, row["sequence_depth"])
	assert.Equal(t, 157, row["max_variant_reads"])
	assert.InDelta(t, 98.125, row["variant_read_pct"].(float64), 1e-9)
}

func TestPlatypusRecord_MultiallelicTakesMaxReads(t *testing.T) {
	v := &vcf.Variant{
		Chrom: "1",
		Pos:   91859795,
		Ref:   "TATGTGA",
		Alts:  []string{"CATGTGA", "CATGTGG"},
		Info: map[string]interface{}{
			"TC": "100",
			"TR": "50,75",
		},
	}
	row, err := PlatypusRecord(v)
	require.NoError(t, err)
	assert.Equal(t, "CATGTGA,CATGTGG", row["alt"])
	assert.Equal(t, 75, row["max_variant_reads"])
	assert.InDelta(t, 75.0, row["variant_read_pct"].(float64), 1e-9)
}

func TestPlatypusRecord_AdditionalColumns(t *testing.T) {
	row, err := PlatypusRecord(platypusVariant(), NamedColumn{
		Name: "maf",
		Fn:   func(v *vcf.Variant) (interface{}, error) { return 0.25, nil },
	})
	require.NoError(t, err)
	assert.Equal(t, 0.25, row["maf"])
}

func TestPlatypusRecord_MissingDepth(t *testing.T) {
	v := platypusVariant()
	delete(v.Info, "TC")
	_, err := PlatypusRecord(v)
	var mfe *vcf.MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, "TC", mfe.Field)
}

func TestPlatypusRecord_ZeroDepth(t *testing.T) {
	v := platypusVariant()
	v.Info["TC"] = "0"
	_, err := PlatypusRecord(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero sequence depth")
}

func TestPlatypusRecord_FailingColumnDiscardsRow(t *testing.T) {
	_, err := PlatypusRecord(platypusVariant(), NamedColumn{
		Name: "maf",
		Fn: func(v *vcf.Variant) (interface{}, error) {
			return nil, &vcf.MissingFieldError{Field: "GT"}
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "maf"`)
}

const vepItemJSON = `{
	"seq_region_name": "1",
	"start": 1158631,
	"allele_string": "A/G",
	"variant_class": "SNV",
	"most_severe_consequence": "missense_variant",
	"transcript_consequences": [
		{
			"gene_symbol": "SDF4",
			"gene_id": "ENSG00000078808",
			"transcript_id": "ENST00000360001"
		}
	]
}`

func decodeItem(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var item map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &item))
	return item
}

func TestVEPResponse(t *testing.T) {
	row, err := VEPResponse(decodeItem(t, vepItemJSON))
	require.NoError(t, err)

	assert.Equal(t, "1", row["contig"])
	assert.Equal(t, int64(1158631), row["pos"])
	assert.Equal(t, "A", row["ref"])
	assert.Equal(t, "G", row["alt"])
	assert.Equal(t, "SNV", row["type"])
	assert.Equal(t, "missense_variant", row["effect"])
	assert.Equal(t, "SDF4", row["gene_name"])
	assert.Equal(t, "ENSG00000078808", row["gene_id"])
	assert.Equal(t, "ENST00000360001", row["transcript_id"])
}

func TestVEPResponse_MultiAltAlleleString(t *testing.T) {
	item := decodeItem(t, vepItemJSON)
	item["allele_string"] = "TATGTGA/CATGTGA/CATGTGG"
	row, err := VEPResponse(item)
	require.NoError(t, err)
	assert.Equal(t, "TATGTGA", row["ref"])
	assert.Equal(t, "CATGTGA,CATGTGG", row["alt"])
}

func TestVEPResponse_NoTranscriptConsequences(t *testing.T) {
	item := decodeItem(t, vepItemJSON)
	delete(item, "transcript_consequences")
	row, err := VEPResponse(item)
	require.NoError(t, err)
	assert.Nil(t, row["gene_name"])
	assert.Nil(t, row["gene_id"])
	assert.Nil(t, row["transcript_id"])
	assert.Equal(t, "SNV", row["type"])
}

func TestVEPResponse_MissingRequiredField(t *testing.T) {
	item := decodeItem(t, vepItemJSON)
	delete(item, "variant_class")
	_, err := VEPResponse(item)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "variant_class")
}
