// Package split divides a VCF file into smaller physical files, each
// carrying the full header. Useful for fanning a large VCF out over
// several pipeline invocations.
package split

import (
	"compress/gzip"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/varona/internal/vcf"
)

// Split writes the records of vcfPath into smaller gzipped VCF files
// under outDir and returns their paths. Exactly one of chunkSize or
// nChunks should be set; when both are set, nChunks wins.
func Split(vcfPath, outDir string, chunkSize, nChunks int, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chunkSize <= 0 && nChunks <= 0 {
		return nil, fmt.Errorf("either chunk size or number of chunks must be set")
	}

	// quick pass to get the number of records
	nRecords, err := countRecords(vcfPath)
	if err != nil {
		return nil, err
	}
	if nRecords == 0 {
		return nil, nil
	}

	if nChunks > 0 {
		chunkSize = int(math.Ceil(float64(nRecords) / float64(nChunks)))
	} else {
		nChunks = int(math.Ceil(float64(nRecords) / float64(chunkSize)))
	}
	logger.Info("splitting VCF",
		zap.String("path", vcfPath),
		zap.Int("pieces", nChunks))

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	nDigits := int(math.Ceil(math.Log10(float64(nChunks)))) + 1
	stem := multiSuffixStem(vcfPath)

	reader, err := vcf.NewRawReader(vcfPath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	// Pull the first record so the header is fully buffered before any
	// chunk file is opened.
	row, err := reader.Next()
	if err != nil {
		return nil, err
	}
	header := reader.Header()

	var splits []string
	for fileIx := 1; fileIx <= nChunks && row != nil; fileIx++ {
		name := fmt.Sprintf("%s_%0*d.vcf.gz", stem, nDigits, fileIx)
		outPath := filepath.Join(outDir, name)

		row, err = writeChunk(outPath, header, row, chunkSize, reader)
		if err != nil {
			return nil, err
		}
		splits = append(splits, outPath)
		logger.Info("wrote chunk", zap.String("path", outPath))
	}
	logger.Info("finished splitting VCF", zap.String("path", vcfPath))
	return splits, nil
}

// writeChunk writes one gzipped chunk file holding up to chunkSize
// records, starting at first. It returns the first record of the next
// chunk, or nil when the source is exhausted.
func writeChunk(path string, header []string, first []string, chunkSize int, reader *vcf.RawReader) ([]string, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	gz := gzip.NewWriter(f)

	write := func(line string) error {
		_, err := gz.Write([]byte(line + "\n"))
		return err
	}

	fail := func(err error) ([]string, error) {
		gz.Close()
		f.Close()
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	for _, line := range header {
		if err := write(line); err != nil {
			return fail(err)
		}
	}

	row := first
	for written := 0; written < chunkSize && row != nil; written++ {
		if err := write(strings.Join(row, "\t")); err != nil {
			return fail(err)
		}
		row, err = reader.Next()
		if err != nil {
			return fail(err)
		}
	}

	if err := gz.Close(); err != nil {
		f.Close()
		return nil, fmt.Errorf("close gzip %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", path, err)
	}
	return row, nil
}

// countRecords counts the data rows in a VCF file.
func countRecords(vcfPath string) (int, error) {
	reader, err := vcf.NewRawReader(vcfPath)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	n := 0
	for {
		row, err := reader.Next()
		if err != nil {
			return 0, err
		}
		if row == nil {
			return n, nil
		}
		n++
	}
}

// multiSuffixStem strips every extension from the file name, so
// "sample.vcf.gz" becomes "sample".
func multiSuffixStem(path string) string {
	name := filepath.Base(path)
	for {
		ext := filepath.Ext(name)
		if ext == "" {
			return name
		}
		name = strings.TrimSuffix(name, ext)
	}
}
