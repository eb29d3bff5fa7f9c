package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/lysyi3m/potus-tracker/app/database"
)

const dateLayout = "2006-01-02"

// Channel describes the republished orders feed.
type Channel struct {
	Title       string
	Link        string
	Description string
	SelfURL     string
	Version     string
}

// Generator writes stored executive orders as an RSS 2.0 feed with the
// rendered full text in content:encoded.
type Generator struct {
	markdown goldmark.Markdown
}

func NewGenerator() *Generator {
	return &Generator{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// ToHTML converts rendered order Markdown to an HTML fragment.
func (g *Generator) ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := g.markdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

func (g *Generator) Run(channel Channel, orders []database.Order) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", cmp.Or(channel.Title, "Executive Orders"), 4)
	g.writeElement(&buf, "link", channel.Link, 4)
	g.writeElement(&buf, "description", cmp.Or(channel.Description, "Presidential executive orders with full text"), 4)

	if channel.SelfURL != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(channel.SelfURL)))
	}

	lastBuildDate := time.Now().In(time.Local)
	if len(orders) > 0 {
		lastBuildDate = g.pubDate(orders[0])
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("POTUS-Tracker/%s", cmp.Or(channel.Version, "dev")), 4)
	g.writeElement(&buf, "language", "en-us", 4)

	for _, order := range orders {
		if err := g.writeItem(&buf, order); err != nil {
			return "", fmt.Errorf("failed to write order %s: %w", order.ID, err)
		}
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, order database.Order) error {
	buf.WriteString("    <item>\n")

	buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(order.ID)))
	xml.EscapeText(buf, []byte(order.ID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", order.Title, 6)
	g.writeElement(buf, "link", order.HTMLURL, 6)
	g.writeElement(buf, "description", g.summary(order), 6)

	if order.Markdown != "" {
		content, err := g.ToHTML(order.Markdown)
		if err != nil {
			return err
		}
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(strings.ReplaceAll(content, "]]>", "]]]]><![CDATA[>"))
		buf.WriteString("]]></content:encoded>\n")
	}

	g.writeElement(buf, "pubDate", g.pubDate(order).Format(time.RFC1123Z), 6)
	g.writeElement(buf, "category", "Executive Order", 6)

	// RSS requires a length; 0 when unknown.
	if order.PDFURL != "" {
		buf.WriteString(fmt.Sprintf("      <enclosure url=\"%s\" length=\"0\" type=\"application/pdf\" />\n",
			html.EscapeString(order.PDFURL)))
	}

	buf.WriteString("    </item>\n")
	return nil
}

func (g *Generator) summary(order database.Order) string {
	var parts []string
	if t, err := time.Parse(dateLayout, order.SigningDate); err == nil {
		parts = append(parts, "signed "+t.Format("January 2, 2006"))
	}
	if t, err := time.Parse(dateLayout, order.PublicationDate); err == nil {
		parts = append(parts, "published "+t.Format("January 2, 2006"))
	}
	if len(parts) == 0 {
		return "Executive order"
	}
	return "Executive order " + strings.Join(parts, ", ")
}

// pubDate is the Federal Register publication date, or the last update
// when the feed gave none.
func (g *Generator) pubDate(order database.Order) time.Time {
	if t, err := time.Parse(dateLayout, order.PublicationDate); err == nil {
		return t
	}
	return order.UpdatedAt
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return (len(s) > 7 && s[:7] == "http://") || (len(s) > 8 && s[:8] == "https://")
}
