// Package content cleans raw provider records into the canonical article
// shape: HTML-stripped, length-bounded snippets.
package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"MarketFeed/internal/domain"
)

// MaxSnippetLength bounds the persisted snippet size in characters.
const MaxSnippetLength = 500

// StripHTML decodes entities and removes markup, keeping only text.
func StripHTML(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	return doc.Text()
}

// TruncateSnippet strips markup and truncates to the length budget,
// preferring to cut at the last sentence terminator within budget; else it
// hard-cuts with a trailing ellipsis.
func TruncateSnippet(raw string) string {
	text := strings.TrimSpace(StripHTML(raw))

	runes := []rune(text)
	if len(runes) <= MaxSnippetLength {
		return text
	}

	truncated := string(runes[:MaxSnippetLength])
	if last := strings.LastIndex(truncated, "."); last > 0 {
		return truncated[:last+1] + " ..."
	}
	return truncated + "..."
}

// Clean standardizes a raw article: missing optional fields stay empty, the
// snippet is stripped and truncated.
func Clean(article domain.Article) domain.Article {
	article.Snippet = TruncateSnippet(article.Snippet)
	return article
}
