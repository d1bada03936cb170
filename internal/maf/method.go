package maf

import (
	"fmt"
	"strings"
)

// Method selects one of the MAF calculation strategies.
type Method int

const (
	// MethodFR derives the MAF from the FR INFO field.
	MethodFR Method = iota
	// MethodBcftools reads the MAF INFO field added by `bcftools +fill-tags`.
	// Only usable when bcftools is installed.
	MethodBcftools
	// MethodSamples derives the MAF from the sample genotypes.
	MethodSamples
)

var methodNames = map[Method]string{
	MethodFR:       "FR",
	MethodBcftools: "BCFTOOLS",
	MethodSamples:  "SAMPLES",
}

// methodValues maps lowercased names to methods for case-insensitive parsing.
var methodValues = map[string]Method{
	"fr":       MethodFR,
	"bcftools": MethodBcftools,
	"samples":  MethodSamples,
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod resolves a method by case-insensitive name.
func ParseMethod(s string) (Method, error) {
	if m, ok := methodValues[strings.ToLower(s)]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("unknown MAF method %q (choose from %v)", s, MethodNames())
}

// MethodNames lists the method names in declaration order.
func MethodNames() []string {
	return []string{"FR", "BCFTOOLS", "SAMPLES"}
}
