package devserver

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/krisalay/navcache/types"
)

// Page is one admin page, authored in markdown.
type Page struct {
	Route    types.Route
	Title    string
	Markdown string
}

// newMarkdown returns the converter every page goes through.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
}

// toHTML renders a page body to an HTML fragment.
func toHTML(md goldmark.Markdown, p Page) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(p.Markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering page %s: %w", p.Route, err)
	}
	return buf.String(), nil
}

// DefaultPages is the built-in admin: a dashboard and three sections.
func DefaultPages() []Page {
	return []Page{
		{Route: "dashboard", Title: "Dashboard", Markdown: `# Dashboard

| Metric | Value |
|---|---|
| Brands | 3 |
| Posts this week | 12 |
| Pending reviews | 2 |

Recent activity is under **Activity Log**.
`},
		{Route: "brands", Title: "Brands", Markdown: `# Brands

- **Acme** - friendly, short sentences
- **Globex** - formal, data first
- **Initech** - playful
`},
		{Route: "settings", Title: "Settings", Markdown: `# Settings

1. Default brand: Acme
2. Auto-publish: off
3. Review queue: enabled
`},
		{Route: "logs", Title: "Activity Log", Markdown: `# Activity Log

- 09:12 post drafted for Acme
- 09:30 Globex voice updated
- 10:02 review approved
`},
	}
}

/*
LoadPagesDir reads every *.md file in dir as a page.

The route is the file name without extension. The title is the first
level-one heading, or the route when there is none. Pages come back sorted
by route.
*/
func LoadPagesDir(dir string) ([]Page, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	sort.Strings(paths)

	pages := make([]Page, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading page: %w", err)
		}
		route := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		pages = append(pages, Page{
			Route:    types.Route(route),
			Title:    headingOr(string(data), route),
			Markdown: string(data),
		})
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages found in %s", dir)
	}
	return pages, nil
}

func headingOr(markdown, fallback string) string {
	sc := bufio.NewScanner(strings.NewReader(markdown))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if title, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	return fallback
}
