package fedreg

import (
	"regexp"
	"strings"
)

// Rule is the rendering behavior attached to a tag name.
type Rule int

const (
	PassThrough Rule = iota
	Skip
	Heading1
	Heading2
	Paragraph
	InlineEmphasis
	Graphic
	MetadataBlock
)

// Emphasis codes carried by the T attribute of E elements.
const (
	EmphasisAttr   = "T"
	EmphasisItalic = "03"
	EmphasisBold   = "04"
)

const graphicIDTag = "GID"

// DefaultRules covers the tags that appear in presidential documents.
var DefaultRules = map[string]Rule{
	"TITLE3":   Skip,
	"PRTPAGE":  Skip,
	"EXECORDR": Heading1,
	"HD":       Heading2,
	"PREAMB":   Paragraph,
	"FP":       Paragraph,
	"P":        Paragraph,
	"E":        InlineEmphasis,
	"GPH":      Graphic,
	"PSIG":     MetadataBlock,
	"PLACE":    MetadataBlock,
	"DATE":     MetadataBlock,
	"FRDOC":    MetadataBlock,
	"BILCOD":   MetadataBlock,
}

var whitespaceRun = regexp.MustCompile(`[\s\p{Z}]+`)

type Renderer struct {
	rules map[string]Rule
}

type Option func(*Renderer)

// WithRule adds or replaces the rule for a tag.
func WithRule(tag string, rule Rule) Option {
	return func(r *Renderer) {
		r.rules[strings.ToUpper(tag)] = rule
	}
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{rules: make(map[string]Rule, len(DefaultRules))}
	for tag, rule := range DefaultRules {
		r.rules[tag] = rule
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts a document tree to Markdown. It never fails; tags without
// a rule contribute the rendering of their children unchanged.
func (r *Renderer) Render(root *Node) string {
	if root == nil {
		return ""
	}
	return strings.TrimSpace(r.render(root))
}

func (r *Renderer) render(n *Node) string {
	if n.Type == TextNode {
		return whitespaceRun.ReplaceAllString(n.Text, " ")
	}

	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(r.render(child))
	}
	content := sb.String()

	switch r.rules[strings.ToUpper(n.Name)] {
	case Skip:
		return ""
	case Heading1:
		return "# " + strings.TrimSpace(content) + "\n\n"
	case Heading2:
		return "## " + strings.TrimSpace(content) + "\n\n"
	case Paragraph, MetadataBlock:
		return strings.TrimSpace(content) + "\n\n"
	case InlineEmphasis:
		return r.emphasis(n, strings.TrimSpace(content))
	case Graphic:
		return r.graphic(n)
	default:
		return content
	}
}

func (r *Renderer) emphasis(n *Node, content string) string {
	code, _ := n.Attr(EmphasisAttr)
	switch code {
	case EmphasisBold:
		return "**" + content + "**"
	case EmphasisItalic:
		return "*" + content + "*"
	default:
		return content
	}
}

func (r *Renderer) graphic(n *Node) string {
	id := n.Find(graphicIDTag)
	if id == nil {
		return ""
	}
	return "![Graphic: " + strings.TrimSpace(r.render(id)) + "]\n\n"
}

var defaultRenderer = NewRenderer()

// ToMarkdown parses a Federal Register XML document and renders it with the
// default rule table. Empty input yields empty output.
func ToMarkdown(data []byte) (string, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", nil
	}

	root, err := Parse(data)
	if err != nil {
		return "", err
	}

	return defaultRenderer.Render(root), nil
}
