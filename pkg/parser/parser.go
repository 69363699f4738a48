// pkg/parser/parser.go
package parser

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"

	"github.com/NivBraz/speller/internal/models"
)

type Format string

const (
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Parser extracts checkable words from documents.
type Parser struct {
	maxWordLength int
	markdown      goldmark.Markdown
}

func New(maxWordLength int) *Parser {
	return &Parser{
		maxWordLength: maxWordLength,
		markdown:      goldmark.New(),
	}
}

// DetectFormat guesses a document format from a file name or URL.
func DetectFormat(name string) Format {
	if u, err := url.Parse(name); err == nil && u.Scheme != "" && u.Host != "" {
		name = u.Path
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	case ".md", ".markdown", ".mdown":
		return FormatMarkdown
	default:
		return FormatText
	}
}

// ParseFormat maps a user supplied format name, falling back to detection.
func ParseFormat(raw, name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", "auto":
		return DetectFormat(name), nil
	case FormatText:
		return FormatText, nil
	case FormatHTML:
		return FormatHTML, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown document format %q", raw)
}

func (p *Parser) Parse(format Format, content []byte) ([]string, error) {
	switch format {
	case FormatHTML:
		return p.ParseHTML(content)
	case FormatMarkdown:
		return p.ParseMarkdown(content), nil
	default:
		return p.ParseText(content), nil
	}
}

// ParseText splits plain text into words. A word is a run of ASCII letters
// and apostrophes that does not start with an apostrophe. Runs longer than
// the maximum word length and runs containing digits are dropped whole.
func (p *Parser) ParseText(content []byte) []string {
	var words []string
	var word []byte

	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case isAlpha(c) || (c == '\'' && len(word) > 0):
			word = append(word, c)
			if len(word) > p.maxWordLength {
				i = skipWhile(content, i+1, isAlpha)
				word = word[:0]
			}
		case isDigit(c):
			i = skipWhile(content, i+1, isAlnum)
			word = word[:0]
		case len(word) > 0:
			words = append(words, string(word))
			word = word[:0]
		}
	}
	if len(word) > 0 {
		words = append(words, string(word))
	}

	return words
}

// ParseHTML extracts words from the visible text of an HTML document
func (p *Parser) ParseHTML(content []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	doc.Find("script, style, noscript, template").Remove()

	var words []string
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			words = append(words, p.ParseText([]byte(n.Data))...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}

	for _, n := range doc.Nodes {
		extractText(n)
	}
	return words, nil
}

// ParseMarkdown extracts words from Markdown prose. Code and raw HTML are skipped.
func (p *Parser) ParseMarkdown(content []byte) []string {
	root := p.markdown.Parser().Parse(text.NewReader(content))

	var words []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.CodeSpan, *gmast.CodeBlock, *gmast.FencedCodeBlock, *gmast.HTMLBlock, *gmast.RawHTML:
			return gmast.WalkSkipChildren, nil
		case *gmast.Text:
			words = append(words, p.ParseText(node.Segment.Value(content))...)
		case *gmast.String:
			words = append(words, p.ParseText(node.Value)...)
		}
		return gmast.WalkContinue, nil
	})

	return words
}

// SortWordCounts sorts word counts by frequency (descending) and alphabetically for ties
func SortWordCounts(words []models.WordCount) {
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count == words[j].Count {
			return words[i].Word < words[j].Word
		}
		return words[i].Count > words[j].Count
	})
}

// skipWhile returns the index of the byte that ends the run. Callers step
// past it, so the terminator is dropped along with the run.
func skipWhile(content []byte, i int, keep func(byte) bool) int {
	for i < len(content) && keep(content[i]) {
		i++
	}
	return i
}

func isAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isAlnum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
