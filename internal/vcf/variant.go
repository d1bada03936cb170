// Package vcf provides VCF file parsing functionality.
package vcf

import (
	"fmt"
	"strconv"
	"strings"
)

// Variant represents a single genomic variant from a VCF file.
type Variant struct {
	Chrom     string                 // Chromosome name (e.g., "12", "chr12")
	Pos       int64                  // 1-based genomic position
	ID        string                 // Variant identifier (e.g., rs ID)
	Ref       string                 // Reference allele
	Alts      []string               // Alternate alleles, in VCF order
	Qual      float64                // Quality score
	Filter    string                 // Filter status (PASS or filter name)
	Info      map[string]interface{} // INFO field key-value pairs
	Genotypes [][]int                // Per-sample allele indices from the GT format field
}

// MissingFieldError reports an absent INFO or sample field that an
// extractor requires. The whole run aborts on this error; there is no
// row-skip policy.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// NumAlleles returns the number of alleles at this site, reference included.
func (v *Variant) NumAlleles() int {
	return 1 + len(v.Alts)
}

// AltString returns the alternate alleles comma-joined, as written in the VCF.
func (v *Variant) AltString() string {
	return strings.Join(v.Alts, ",")
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func (v *Variant) NormalizeChrom() string {
	if len(v.Chrom) > 3 && v.Chrom[:3] == "chr" {
		return v.Chrom[3:]
	}
	return v.Chrom
}

// InfoString returns a raw INFO value as a string.
func (v *Variant) InfoString(key string) (string, error) {
	raw, ok := v.Info[key]
	if !ok {
		return "", &MissingFieldError{Field: key}
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("info field %q is a flag, not a value", key)
	}
	return s, nil
}

// InfoInt returns a scalar INFO value as an int.
func (v *Variant) InfoInt(key string) (int, error) {
	s, err := v.InfoString(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("info field %q: %w", key, err)
	}
	return n, nil
}

// InfoFloat returns a scalar INFO value as a float64.
func (v *Variant) InfoFloat(key string) (float64, error) {
	s, err := v.InfoString(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("info field %q: %w", key, err)
	}
	return f, nil
}

// InfoFloats returns a comma-separated INFO value as a float slice.
// Number=A fields like Platypus FR parse this way.
func (v *Variant) InfoFloats(key string) ([]float64, error) {
	s, err := v.InfoString(key)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, ",")
	vals := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("info field %q: %w", key, err)
		}
		vals[i] = f
	}
	return vals, nil
}

// InfoInts returns a comma-separated INFO value as an int slice.
func (v *Variant) InfoInts(key string) ([]int, error) {
	s, err := v.InfoString(key)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, ",")
	vals := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("info field %q: %w", key, err)
		}
		vals[i] = n
	}
	return vals, nil
}

// Genotype returns the allele indices called for sample i.
// A sample without a parsed GT call yields a MissingFieldError.
func (v *Variant) Genotype(i int) ([]int, error) {
	if i < 0 || i >= len(v.Genotypes) || v.Genotypes[i] == nil {
		return nil, &MissingFieldError{Field: "GT"}
	}
	return v.Genotypes[i], nil
}
