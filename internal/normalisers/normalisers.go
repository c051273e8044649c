package normalisers

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// PlaintextNormaliser handles plain text, including text extracted from PDFs.
type PlaintextNormaliser struct{}

// Normalise applies NFKC so ligatures and full-width forms become plain
// letters, then unifies line endings.
func (n *PlaintextNormaliser) Normalise(content string, mimeType string) string {
	content = norm.NFKC.String(content)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.TrimSpace(content)
}

func (n *PlaintextNormaliser) SupportedTypes() []string {
	return []string{"text/plain", "*/*"}
}

func (n *PlaintextNormaliser) Priority() int {
	return 1
}

var (
	markdownLink  = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	markdownBlank = regexp.MustCompile(`\n{3,}`)
)

// MarkdownNormaliser handles Markdown bill summaries.
type MarkdownNormaliser struct{}

// Normalise keeps link text and drops link targets so URLs do not
// contribute tokens.
func (n *MarkdownNormaliser) Normalise(content string, mimeType string) string {
	content = (&PlaintextNormaliser{}).Normalise(content, mimeType)
	content = markdownLink.ReplaceAllString(content, "$1")
	content = markdownBlank.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

func (n *MarkdownNormaliser) SupportedTypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

func (n *MarkdownNormaliser) Priority() int {
	return 50
}

// HTMLNormaliser extracts the visible text of HTML bill pages.
type HTMLNormaliser struct{}

// Normalise parses the document and joins its text nodes with single spaces.
// Script, style and template content is dropped; entities are decoded.
func (n *HTMLNormaliser) Normalise(content string, mimeType string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		// html.Parse only fails on reader errors
		return strings.Join(strings.Fields(content), " ")
	}

	var b strings.Builder
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.ElementNode:
			switch node.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			}
		case html.TextNode:
			b.WriteString(node.Data)
			b.WriteByte(' ')
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	text := norm.NFKC.String(b.String())
	return strings.Join(strings.Fields(text), " ")
}

func (n *HTMLNormaliser) SupportedTypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

func (n *HTMLNormaliser) Priority() int {
	return 50
}
