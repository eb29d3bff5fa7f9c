package source

import (
	"strings"
	"testing"
)

const orderPage = `<!DOCTYPE html>
<html>
<head><title>Initial Rescissions of Harmful Executive Orders and Actions</title></head>
<body>
  <nav><a href="/">Home</a> <a href="/search">Search</a></nav>
  <article>
    <h1>Initial Rescissions of Harmful Executive Orders and Actions</h1>
    <p>By the authority vested in me as President by the Constitution and the laws of the United States of America, it is hereby ordered as follows, and the agencies named in this order shall act accordingly.</p>
    <p>Section 1. Purpose. The previous administration has embedded deeply unpopular, inflationary, illegal, and radical practices within every agency and office of the Federal Government, and this order begins to reverse them.</p>
    <p>Sec. 2. Revocation of Executive Orders and Actions. The following executive orders and actions are hereby revoked, and agencies shall take immediate steps to end their implementation wherever it continues.</p>
  </article>
  <footer>Federal Register footer links and other boilerplate.</footer>
</body>
</html>`

func TestTextExtractorRun(t *testing.T) {
	extractor := NewTextExtractor()

	text, err := extractor.Run([]byte(orderPage), "https://www.federalregister.gov/documents/2025/01/28/2025-01901/initial")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(text, "it is hereby ordered as follows") {
		t.Errorf("Expected article body in extracted text, got: %q", text)
	}
}

func TestTextExtractorEmpty(t *testing.T) {
	if _, err := NewTextExtractor().Run(nil, ""); err == nil {
		t.Error("Expected error for empty HTML")
	}
}

func TestTextExtractorInvalidURL(t *testing.T) {
	if _, err := NewTextExtractor().Run([]byte(orderPage), "://bad"); err == nil {
		t.Error("Expected error for invalid page URL")
	}
}

func TestToParagraphs(t *testing.T) {
	got := toParagraphs("  First   line \n\n\n second\tline\n")
	if got != "First line\n\nsecond line" {
		t.Errorf("Unexpected paragraphs: %q", got)
	}
}
