package viewer

import (
	"fmt"
	"os"
	"strings"

	"github.com/verte-zerg/monkeylog/internal/render"
)

// Page is one page of a chart document.
type Page struct {
	Title string
	Body  string
}

// LoadPages reads a chart document from path.
func LoadPages(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	pages := SplitPages(string(data))
	if len(pages) == 0 {
		return nil, fmt.Errorf("document %s is empty", path)
	}
	return pages, nil
}

// SplitPages splits document text on page breaks. The first line of each
// page is its title.
func SplitPages(doc string) []Page {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	var pages []Page
	for i, chunk := range strings.Split(doc, render.PageBreak) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		title, _, _ := strings.Cut(chunk, "\n")
		title = strings.TrimSpace(title)
		if title == "" {
			title = fmt.Sprintf("Page %d", i+1)
		}
		pages = append(pages, Page{Title: title, Body: strings.TrimRight(chunk, "\n")})
	}
	return pages
}
