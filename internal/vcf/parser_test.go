package vcf

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleVCF = `##fileformat=VCFv4.2
##INFO=<ID=TC,Number=1,Type=Integer,Description="Total coverage">
##INFO=<ID=TR,Number=A,Type=Integer,Description="Reads supporting alt">
##INFO=<ID=FR,Number=A,Type=Float,Description="Estimated allele frequency">
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	sample1	sample2	sample3
1	1158631	.	A	G	2965	PASS	FR=1.0;TC=160;TR=157	GT:GL	1/1:-1,-2	1/1:-3,-4	0/1:-5,-6
1	91859795	.	TATGTGA	CATGTGA,CATGTGG	200	PASS	FR=0.5,0.25;TC=100;TR=50,25	GT	0/1	1/2	2/2
`

func TestParser_Fields(t *testing.T) {
	parser, err := NewParserFromReader(strings.NewReader(sampleVCF))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	v, err := parser.Next()
	if err != nil {
		t.Fatalf("Failed to read variant: %v", err)
	}
	if v == nil {
		t.Fatal("Expected a variant, got nil")
	}

	if v.Chrom != "1" {
		t.Errorf("Expected chrom 1, got %s", v.Chrom)
	}
	if v.Pos != 1158631 {
		t.Errorf("Expected pos 1158631, got %d", v.Pos)
	}
	if v.Ref != "A" {
		t.Errorf("Expected ref A, got %s", v.Ref)
	}
	if v.AltString() != "G" {
		t.Errorf("Expected alt G, got %s", v.AltString())
	}

	tc, err := v.InfoInt("TC")
	if err != nil {
		t.Fatalf("InfoInt(TC): %v", err)
	}
	if tc != 160 {
		t.Errorf("Expected TC 160, got %d", tc)
	}

	fr, err := v.InfoFloats("FR")
	if err != nil {
		t.Fatalf("InfoFloats(FR): %v", err)
	}
	if len(fr) != 1 || fr[0] != 1.0 {
		t.Errorf("Expected FR [1.0], got %v", fr)
	}

	gt, err := v.Genotype(2)
	if err != nil {
		t.Fatalf("Genotype(2): %v", err)
	}
	if len(gt) != 2 || gt[0] != 0 || gt[1] != 1 {
		t.Errorf("Expected genotype [0 1], got %v", gt)
	}
}

func TestParser_MultiAllelic(t *testing.T) {
	parser, err := NewParserFromReader(strings.NewReader(sampleVCF))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	parser.Next() // skip first
	v, err := parser.Next()
	if err != nil {
		t.Fatalf("Failed to read variant: %v", err)
	}
	if v == nil {
		t.Fatal("Expected a variant, got nil")
	}

	if len(v.Alts) != 2 {
		t.Fatalf("Expected 2 alts, got %d", len(v.Alts))
	}
	if v.AltString() != "CATGTGA,CATGTGG" {
		t.Errorf("Unexpected alt string %q", v.AltString())
	}
	if v.NumAlleles() != 3 {
		t.Errorf("Expected 3 alleles, got %d", v.NumAlleles())
	}

	tr, err := v.InfoInts("TR")
	if err != nil {
		t.Fatalf("InfoInts(TR): %v", err)
	}
	if len(tr) != 2 || tr[0] != 50 || tr[1] != 25 {
		t.Errorf("Expected TR [50 25], got %v", tr)
	}

	gt, err := v.Genotype(1)
	if err != nil {
		t.Fatalf("Genotype(1): %v", err)
	}
	if len(gt) != 2 || gt[0] != 1 || gt[1] != 2 {
		t.Errorf("Expected genotype [1 2], got %v", gt)
	}

	// No more variants
	v3, err := parser.Next()
	if err != nil {
		t.Fatalf("Error checking for more variants: %v", err)
	}
	if v3 != nil {
		t.Error("Expected no more variants")
	}
}

func TestParser_MissingInfoField(t *testing.T) {
	parser, err := NewParserFromReader(strings.NewReader(sampleVCF))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	v, err := parser.Next()
	if err != nil {
		t.Fatalf("Failed to read variant: %v", err)
	}

	_, err = v.InfoFloat("MAF")
	if err == nil {
		t.Fatal("Expected error for missing MAF field")
	}
	var mfe *MissingFieldError
	if !errors.As(err, &mfe) {
		t.Fatalf("Expected MissingFieldError, got %T", err)
	}
	if mfe.Field != "MAF" {
		t.Errorf("Expected field MAF, got %s", mfe.Field)
	}
}

func TestParser_Gzipped(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(sampleVCF)); err != nil {
		t.Fatalf("compress fixture: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}

	path := filepath.Join(t.TempDir(), "sample.vcf.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	parser, err := NewParser(path)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer parser.Close()

	count := 0
	for {
		v, err := parser.Next()
		if err != nil {
			t.Fatalf("Error reading variant: %v", err)
		}
		if v == nil {
			break
		}
		count++
	}
	if count != 2 {
		t.Errorf("Expected 2 variants, got %d", count)
	}
}

func TestParser_SampleNames(t *testing.T) {
	parser, err := NewParserFromReader(strings.NewReader(sampleVCF))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	names := parser.SampleNames()
	if len(names) != 3 {
		t.Fatalf("Expected 3 samples, got %d", len(names))
	}
	if names[0] != "sample1" {
		t.Errorf("Expected sample1, got %s", names[0])
	}
}
