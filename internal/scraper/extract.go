package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractTopics returns the trimmed text of every element matching selector,
// in document order. Elements whose text is blank are dropped.
func ExtractTopics(html, selector string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	topics := []string{}
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			topics = append(topics, text)
		}
	})
	return topics, nil
}
