// Package bcftools wraps the out-of-process bcftools tool.
//
// Only the fill-tags plugin is used, to pre-populate a MAF INFO field on
// a temporary copy of a VCF before the annotation pipeline runs. If
// bcftools is not on PATH, only the BCFTOOLS MAF method is disabled; the
// rest of the pipeline is unaffected.
package bcftools

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DisableEnv disables bcftools detection when set to "1", mainly for tests.
const DisableEnv = "VARONA_DISABLE_BCFTOOLS"

// AllowedTags is the set of tags fill-tags may add to the VCF.
var AllowedTags = map[string]bool{
	"AN":  true,
	"AC":  true,
	"AF":  true,
	"MAF": true,
}

// Available reports whether the bcftools command can be run.
func Available() bool {
	if os.Getenv(DisableEnv) == "1" {
		return false
	}
	_, err := exec.LookPath("bcftools")
	return err == nil
}

// ValidateTags checks that every tag is one fill-tags may add.
func ValidateTags(tags []string) error {
	for _, tag := range tags {
		if !AllowedTags[tag] {
			return fmt.Errorf("tag %q is not allowed; only AN, AC, AF, and MAF tags are allowed", tag)
		}
	}
	return nil
}

// FillTags runs the bcftools fill-tags plugin on inputVCF, writing the
// tagged VCF to outputVCF.
func FillTags(inputVCF, outputVCF string, tags []string) error {
	if err := ValidateTags(tags); err != nil {
		return err
	}
	cmd := exec.Command(
		"bcftools", "plugin", "fill-tags",
		inputVCF,
		"-o", outputVCF,
		"-O", "v",
		"--",
		"-t", strings.Join(tags, ","),
	)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("bcftools fill-tags: %w", err)
	}
	return nil
}

// FilledVCF preprocesses a VCF through fill-tags into a temporary file
// and returns its path along with a cleanup function.
func FilledVCF(path string, tags []string) (string, func(), error) {
	if !Available() {
		return "", nil, fmt.Errorf("bcftools is needed for preprocess operations")
	}

	tmpDir, err := os.MkdirTemp("", "varona-bcftools-")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	unprocessed := filepath.Join(tmpDir, "unprocessed.vcf")
	if err := copyFile(path, unprocessed); err != nil {
		cleanup()
		return "", nil, err
	}

	processed := filepath.Join(tmpDir, "processed.vcf")
	if err := FillTags(unprocessed, processed, tags); err != nil {
		cleanup()
		return "", nil, err
	}

	return processed, cleanup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
