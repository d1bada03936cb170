// Package vcf provides VCF file parsing functionality.
package vcf

// VariantSource is the interface for iterators that yield variants.
// The pipeline consumes VCF files through this abstraction.
type VariantSource interface {
	// Next reads the next variant.
	// Returns nil, nil when there are no more variants.
	Next() (*Variant, error)

	// Close closes the source and releases resources.
	Close() error
}

// RowSource is the interface for iterators over the physical
// tab-delimited rows of a variant file, header lines excluded.
type RowSource interface {
	// Next reads the next data row as raw column values.
	// Returns nil, nil when there are no more rows.
	Next() ([]string, error)

	// Close closes the source and releases resources.
	Close() error
}
