package render

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF-")

// validatePDF checks that data is a readable PDF with at least one page.
func validatePDF(data []byte) (err error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return errors.New("output is not a PDF")
	}
	// The reader panics on some malformed input.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	rd, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("parse PDF: %w", err)
	}
	if rd.NumPage() < 1 {
		return errors.New("PDF has no pages")
	}
	return nil
}
