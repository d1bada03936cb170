// Package maf computes minor allele frequency (MAF) from VCF variants.
//
// "Minor" allele frequency is ill-defined for sites with more than two
// alleles without an explicit rule. This package defines it uniformly as
// the second element of the descending-sorted full allele-frequency
// list, reference allele included.
package maf

import (
	"fmt"
	"sort"

	"github.com/inodb/varona/internal/bcftools"
	"github.com/inodb/varona/internal/vcf"
)

// FromFR computes the MAF from the "FR" INFO value in a variant.
//
// The FR values cover the alt alleles only, so the reference allele
// frequency is derived as 1 minus their sum before sorting.
func FromFR(v *vcf.Variant) (float64, error) {
	afList, err := v.InfoFloats("FR")
	if err != nil {
		return 0, err
	}
	refAF := 1.0
	for _, af := range afList {
		refAF -= af
	}
	afList = append(afList, refAF)
	sort.Sort(sort.Reverse(sort.Float64Slice(afList)))
	// it'll be the second-highest
	return afList[1], nil
}

// FromInfo extracts a precomputed "MAF" value from the INFO section.
//
// bcftools, if installed, may be used to add this key to the VCF file
// with `bcftools +fill-tags`.
func FromInfo(v *vcf.Variant) (float64, error) {
	return v.InfoFloat("MAF")
}

// FromSamples computes the MAF from the sample genotypes in a variant.
//
// Allele-index occurrences are tallied across every sample's GT call,
// all alleles counted, then each allele's count is divided by the total
// allele count over all samples.
func FromSamples(v *vcf.Variant) (float64, error) {
	counts := make(map[int]int)
	total := 0
	for i := range v.Genotypes {
		gt, err := v.Genotype(i)
		if err != nil {
			return 0, err
		}
		for _, allele := range gt {
			counts[allele]++
			total++
		}
	}
	if total == 0 {
		return 0, &vcf.MissingFieldError{Field: "GT"}
	}

	afList := make([]float64, v.NumAlleles())
	for i := range afList {
		afList[i] = float64(counts[i]) / float64(total)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(afList)))
	return afList[1], nil
}

// FromMethod dispatches to the MAF strategy selected by method.
//
// The BCFTOOLS method additionally requires the bcftools command to be
// available; selecting it without bcftools is a configuration error.
func FromMethod(v *vcf.Variant, method Method) (float64, error) {
	switch method {
	case MethodFR:
		return FromFR(v)
	case MethodBcftools:
		if !bcftools.Available() {
			return 0, fmt.Errorf("MAF method %s requires bcftools on PATH", method)
		}
		return FromInfo(v)
	case MethodSamples:
		return FromSamples(v)
	default:
		return 0, fmt.Errorf("unknown MAF method %v", method)
	}
}
