package maf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod_CaseInsensitive(t *testing.T) {
	for _, s := range []string{"fr", "FR", "Fr"} {
		m, err := ParseMethod(s)
		require.NoError(t, err, s)
		assert.Equal(t, MethodFR, m, s)
	}

	m, err := ParseMethod("Samples")
	require.NoError(t, err)
	assert.Equal(t, MethodSamples, m)

	m, err = ParseMethod("bcfTools")
	require.NoError(t, err)
	assert.Equal(t, MethodBcftools, m)
}

func TestParseMethod_Unknown(t *testing.T) {
	_, err := ParseMethod("plink")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plink")
}

func TestMethod_String(t *testing.T) {
	assert.Equal(t, "FR", MethodFR.String())
	assert.Equal(t, "BCFTOOLS", MethodBcftools.String())
	assert.Equal(t, "SAMPLES", MethodSamples.String())
}
