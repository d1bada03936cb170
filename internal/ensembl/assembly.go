// Package ensembl queries the Ensembl Variant Effect Predictor (VEP)
// REST API. It also prepares VCF rows as region query strings for the
// POST vep/:species/region endpoint.
package ensembl

import (
	"fmt"
	"strings"
)

// Assembly selects the genome assembly, which in turn selects the REST
// host to query. There are only two choices for now.
type Assembly int

const (
	// GRCh37 aka hg19 or human_g1k_v37
	GRCh37 Assembly = iota
	// GRCh38 aka hg38
	GRCh38
)

var assemblyNames = map[Assembly]string{
	GRCh37: "GRCh37",
	GRCh38: "GRCh38",
}

var assemblyValues = map[string]Assembly{
	"grch37": GRCh37,
	"grch38": GRCh38,
}

func (a Assembly) String() string {
	if name, ok := assemblyNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Assembly(%d)", int(a))
}

// BaseURL returns the Ensembl REST host for the assembly. GRCh37 is
// served from a dedicated subdomain.
func (a Assembly) BaseURL() string {
	if a == GRCh37 {
		return "https://grch37.rest.ensembl.org"
	}
	return "https://rest.ensembl.org"
}

// ParseAssembly resolves an assembly by case-insensitive name.
func ParseAssembly(s string) (Assembly, error) {
	if a, ok := assemblyValues[strings.ToLower(s)]; ok {
		return a, nil
	}
	return 0, fmt.Errorf("unknown assembly %q (choose from [GRCh37 GRCh38])", s)
}
