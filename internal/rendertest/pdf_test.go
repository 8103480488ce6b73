package rendertest

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
)

func extract(t *testing.T, data []byte) string {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open pdf: %v", err)
	}
	if r.NumPage() != 1 {
		t.Fatalf("expected 1 page, got %d", r.NumPage())
	}
	text, err := r.GetPlainText()
	if err != nil {
		t.Fatalf("extract text: %v", err)
	}
	raw, err := io.ReadAll(text)
	if err != nil {
		t.Fatalf("read text: %v", err)
	}
	return string(raw)
}

func TestMinimalPDFRoundTrip(t *testing.T) {
	lines := []string{"Tech Co", "Engineer", "Jan 2022 - Present", "São Paulo, SP", `costs (30%) \ more`}
	data := MinimalPDF(lines)
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatal("missing PDF header")
	}
	got := extract(t, data)
	for _, want := range lines {
		if !strings.Contains(got, want) {
			t.Fatalf("extracted text %q does not contain %q", got, want)
		}
	}
}

func TestVisibleLines(t *testing.T) {
	html := `<html><head><title>ignored</title><style>.x{}</style></head><body>
<h1>Jane</h1>
<p>  Engineer  </p>
</body></html>`
	got := strings.Join(VisibleLines(html), "|")
	if got != "Jane|Engineer" {
		t.Fatalf("VisibleLines = %q", got)
	}
}
