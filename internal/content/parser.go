// Package content turns markdown page files into AEM page properties and
// rich text.
package content

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

// Frontmatter holds the page properties a file may set
type Frontmatter struct {
	Title       string `yaml:"title"`
	Template    string `yaml:"template"`
	Description string `yaml:"description"`
}

// ParsedContent is a page file split into properties and body
type ParsedContent struct {
	Frontmatter Frontmatter
	// HTML is empty when the body has no content.
	HTML     string
	Markdown string
}

var (
	delimiter = []byte("---")
	newline   = []byte("\n")
)

// ParseFile parses the page file at path; "-" reads stdin
func ParseFile(path string) (*ParsedContent, error) {
	if path == "-" {
		return ParseReader(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ParseReader(f)
}

// ParseReader parses a page file from r
func ParseReader(r io.Reader) (*ParsedContent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return Parse(data)
}

// Parse splits optional YAML frontmatter from the markdown body and renders
// the body to HTML
func Parse(data []byte) (*ParsedContent, error) {
	front, body, hasFront := splitFrontmatter(data)

	parsed := &ParsedContent{Markdown: string(body)}
	if hasFront {
		if err := yaml.Unmarshal(front, &parsed.Frontmatter); err != nil {
			return nil, fmt.Errorf("parsing frontmatter: %w", err)
		}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return parsed, nil
	}

	var html bytes.Buffer
	if err := goldmark.New().Convert(body, &html); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}
	parsed.HTML = html.String()
	return parsed, nil
}

// splitFrontmatter returns the lines between a leading "---" and the next
// "---" line, and everything after. An unterminated block runs to the end.
func splitFrontmatter(data []byte) (front, body []byte, ok bool) {
	first, rest, _ := bytes.Cut(data, newline)
	if !isDelimiter(first) {
		return nil, data, false
	}

	start := rest
	for len(rest) > 0 {
		line, after, _ := bytes.Cut(rest, newline)
		if isDelimiter(line) {
			return start[:len(start)-len(rest)], after, true
		}
		rest = after
	}
	return start, nil, true
}

func isDelimiter(line []byte) bool {
	return bytes.Equal(bytes.TrimSpace(line), delimiter)
}
