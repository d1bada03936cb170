package vcf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// RawReader iterates the physical tab-delimited rows of a VCF file.
// There is no need to parse the records fully for building API query
// strings, so this reads tab-separated lines of text directly,
// skipping header lines. Compression is transparent, same magic-byte
// sniff as Parser.
type RawReader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	header     []string
}

// NewRawReader opens a plain or gzipped VCF file for raw row iteration.
func NewRawReader(path string) (*RawReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	r := &RawReader{file: file}

	gzipped, err := sniffGzip(file)
	if err != nil {
		file.Close()
		return nil, err
	}

	if gzipped {
		r.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.reader = bufio.NewReader(r.gzipReader)
	} else {
		r.reader = bufio.NewReader(file)
	}

	return r, nil
}

// NewRawReaderFromReader wraps an io.Reader for raw row iteration.
func NewRawReaderFromReader(rd io.Reader) *RawReader {
	return &RawReader{reader: bufio.NewReader(rd)}
}

// Next reads the next data row, split on tabs. Header lines (first
// token starting with '#') are collected and skipped.
// Returns nil, nil when there are no more rows.
func (r *RawReader) Next() ([]string, error) {
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read vcf row: %w", err)
		}
		atEOF := err == io.EOF

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if atEOF {
				return nil, nil
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			r.header = append(r.header, line)
			if atEOF {
				return nil, nil
			}
			continue
		}
		return strings.Split(line, "\t"), nil
	}
}

// Header returns the header lines seen so far.
func (r *RawReader) Header() []string {
	return r.header
}

// Close closes the reader and underlying file.
func (r *RawReader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
