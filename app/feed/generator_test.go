package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/potus-tracker/app/database"
)

func testChannel() Channel {
	return Channel{
		Title:   "Executive Orders",
		Link:    "https://potus.example.com/orders",
		SelfURL: "https://potus.example.com/orders.rss",
		Version: "1.2.3",
	}
}

func TestGenerateRSS(t *testing.T) {
	generator := NewGenerator()

	orders := []database.Order{
		{
			ID:              "2025-01901",
			Title:           "Initial Rescissions of Harmful Executive Orders and Actions",
			SigningDate:     "2025-01-20",
			PublicationDate: "2025-01-28",
			HTMLURL:         "https://www.federalregister.gov/documents/2025/01/28/2025-01901/initial",
			PDFURL:          "https://www.govinfo.gov/content/pkg/FR-2025-01-28/pdf/2025-01901.pdf",
			Markdown:        "# Executive Order 14148\n\nBy the authority vested in me as **President**.",
		},
		{
			ID:              "2025-01902",
			Title:           "Pending Order",
			PublicationDate: "2025-01-29",
		},
	}

	rss, err := generator.Run(testChannel(), orders)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expectedParts := []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<rss version="2.0"`,
		`xmlns:content="http://purl.org/rss/1.0/modules/content/"`,
		"<title>Executive Orders</title>",
		"<link>https://potus.example.com/orders</link>",
		`<atom:link href="https://potus.example.com/orders.rss" rel="self" type="application/rss+xml" />`,
		"<lastBuildDate>Tue, 28 Jan 2025 00:00:00 +0000</lastBuildDate>",
		"<generator>POTUS-Tracker/1.2.3</generator>",
		`<guid isPermaLink="false">2025-01901</guid>`,
		"<title>Initial Rescissions of Harmful Executive Orders and Actions</title>",
		"<link>https://www.federalregister.gov/documents/2025/01/28/2025-01901/initial</link>",
		"<description>Executive order signed January 20, 2025, published January 28, 2025</description>",
		"<content:encoded><![CDATA[<h1>Executive Order 14148</h1>\n<p>By the authority vested in me as <strong>President</strong>.</p>\n]]></content:encoded>",
		"<pubDate>Tue, 28 Jan 2025 00:00:00 +0000</pubDate>",
		"<category>Executive Order</category>",
		`<enclosure url="https://www.govinfo.gov/content/pkg/FR-2025-01-28/pdf/2025-01901.pdf" length="0" type="application/pdf" />`,
		"<description>Executive order published January 29, 2025</description>",
		"</channel>",
		"</rss>",
	}

	for _, part := range expectedParts {
		if !strings.Contains(rss, part) {
			t.Errorf("RSS should contain %q", part)
		}
	}

	if strings.Count(rss, "<content:encoded>") != 1 {
		t.Error("Expected content only for the rendered order")
	}
	if strings.Count(rss, "<enclosure") != 1 {
		t.Error("Expected an enclosure only for the order with a PDF")
	}
}

func TestGenerateWithSpecialCharacters(t *testing.T) {
	generator := NewGenerator()

	orders := []database.Order{
		{
			ID:              "special",
			Title:           "Order with <tags> & \"quotes\"",
			PublicationDate: "2025-02-01",
			Markdown:        "Text with a literal ]]> marker",
		},
	}

	rss, err := generator.Run(Channel{Title: "Feed & <Friends>"}, orders)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(rss, "<title>Feed &amp; &lt;Friends&gt;</title>") {
		t.Error("Channel title should have escaped special characters")
	}
	if !strings.Contains(rss, "Order with &lt;tags&gt; &amp; &#34;quotes&#34;") {
		t.Error("Order title should have escaped special characters")
	}
	if strings.Contains(rss, "literal ]]> marker") {
		t.Error("CDATA terminator inside content should be split")
	}
}

func TestGenerateWithEmptyOrders(t *testing.T) {
	generator := NewGenerator()

	rss, err := generator.Run(Channel{}, nil)
	if err != nil {
		t.Fatalf("Expected no error with empty orders, got: %v", err)
	}

	if !strings.Contains(rss, "<title>Executive Orders</title>") {
		t.Error("Expected default channel title")
	}
	if !strings.Contains(rss, "<generator>POTUS-Tracker/dev</generator>") {
		t.Error("Expected default generator version")
	}
	if strings.Contains(rss, "<item>") {
		t.Error("Empty orders RSS should not contain any items")
	}
	if strings.Contains(rss, "atom:link") {
		t.Error("Expected no self link without a self URL")
	}
}

func TestPubDateFallback(t *testing.T) {
	generator := NewGenerator()
	updated := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)

	got := generator.pubDate(database.Order{PublicationDate: "unknown", UpdatedAt: updated})
	if !got.Equal(updated) {
		t.Errorf("Expected fallback to UpdatedAt, got %v", got)
	}
}

func TestToHTML(t *testing.T) {
	generator := NewGenerator()

	html, err := generator.ToHTML("## Sec. 1\n\n*Purpose*")
	if err != nil {
		t.Fatal(err)
	}
	if html != "<h2>Sec. 1</h2>\n<p><em>Purpose</em></p>\n" {
		t.Errorf("Unexpected HTML: %q", html)
	}
}

func TestIsURLMethod(t *testing.T) {
	generator := NewGenerator()

	tests := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"http://example.com", true},
		{"https://example.com", true},
		{"ftp://example.com", false},
		{"2025-01901", false},
		{"http://", false},
		{"https://", false},
	}

	for _, test := range tests {
		result := generator.isURL(test.input)
		if result != test.expected {
			t.Errorf("For input '%s', expected %v, got %v", test.input, test.expected, result)
		}
	}
}
