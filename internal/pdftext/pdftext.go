// Package pdftext obtains page text from PDF documents. Extraction is a
// black box to the rest of the pipeline: no layout analysis, no OCR.
package pdftext

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/specscout/internal/config"
)

// Extractor extracts text content from PDF files.
type Extractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.PDFConfig) (Extractor, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocal(), nil
	case "pdftotext":
		return NewPdfToText(cfg.PdfToTextPath), nil
	default:
		return nil, eris.Errorf("pdftext: unknown provider %q", cfg.Provider)
	}
}
