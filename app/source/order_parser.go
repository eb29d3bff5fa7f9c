package source

import (
	"bytes"
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	federalRegisterBaseURL = "https://www.federalregister.gov"
	govInfoBaseURL         = "https://www.govinfo.gov"
)

// Federal Register document links look like
// /documents/2025/01/28/2025-01901/initial-rescissions-of-harmful-executive-orders
var documentPathPattern = regexp.MustCompile(`/documents/(\d{4})/(\d{2})/(\d{2})/([0-9A-Za-z-]+)`)

var signingDatePattern = regexp.MustCompile(`(?:of|signed|dated)\s+((?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4})`)

// OrderParser reads executive orders from a Federal Register RSS or Atom feed.
type OrderParser struct {
	gofeedParser *gofeed.Parser
}

func NewOrderParser() *OrderParser {
	return &OrderParser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *OrderParser) Run(data []byte) ([]Order, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	orders := make([]Order, 0, len(feed.Items))
	for _, item := range feed.Items {
		order, ok := p.normalizeItem(item)
		if !ok {
			slog.Debug("Skipping feed item without identifier", "title", item.Title)
			continue
		}
		order.ContentHash = p.generateContentHash(order)
		orders = append(orders, order)
	}

	return orders, nil
}

func (p *OrderParser) normalizeItem(item *gofeed.Item) (Order, bool) {
	order := Order{
		Title:   strings.TrimSpace(item.Title),
		HTMLURL: strings.TrimSpace(item.Link),
	}

	if m := documentPathPattern.FindStringSubmatch(item.Link); m != nil {
		year, month, day, number := m[1], m[2], m[3], m[4]
		order.ID = number
		order.PublicationDate = fmt.Sprintf("%s-%s-%s", year, month, day)
		order.XMLURL = fmt.Sprintf("%s/documents/full_text/xml/%s/%s/%s/%s.xml", federalRegisterBaseURL, year, month, day, number)
		order.PDFURL = fmt.Sprintf("%s/content/pkg/FR-%s-%s-%s/pdf/%s.pdf", govInfoBaseURL, year, month, day, number)
	} else {
		order.ID = cmp.Or(strings.TrimSpace(item.GUID), order.HTMLURL)
	}

	if order.PublicationDate == "" && item.PublishedParsed != nil {
		order.PublicationDate = item.PublishedParsed.UTC().Format("2006-01-02")
	}

	order.SigningDate = p.extractSigningDate(item.Title, item.Description)

	if order.ID == "" {
		return order, false
	}
	return order, true
}

// extractSigningDate finds "of January 20, 2025" style phrases in the title
// or summary and returns the date as YYYY-MM-DD.
func (p *OrderParser) extractSigningDate(texts ...string) string {
	for _, text := range texts {
		m := signingDatePattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		normalized := strings.Join(strings.Fields(m[1]), " ")
		if t, err := time.Parse("January 2, 2006", normalized); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

func (p *OrderParser) generateContentHash(order Order) string {
	content := fmt.Sprintf("%s|%s",
		order.Title,
		order.HTMLURL)

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
