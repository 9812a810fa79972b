package vinted

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"vinted-scraper/models"
)

const (
	cardSelector = "div.feed-grid__item"
	linkSelector = `a[href*="/items/"]`
)

// ParseCards finds every catalog card in a page's markup and returns its
// raw bundle. Cards without a listing link are still returned; the
// extractor decides what to keep.
func ParseCards(page string) ([]models.RawListingBundle, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("vinted: parse page: %w", err)
	}

	cards := doc.Find(cardSelector)
	bundles := make([]models.RawListingBundle, 0, cards.Length())

	cards.Each(func(_ int, card *goquery.Selection) {
		var b models.RawListingBundle

		if link := card.Find(linkSelector).First(); link.Length() > 0 {
			b.LinkHref = strings.TrimSpace(link.AttrOr("href", ""))
			b.InfoText = strings.TrimSpace(link.AttrOr("title", ""))
		}
		if img := card.Find("img").First(); img.Length() > 0 {
			b.ImageAlt = strings.TrimSpace(img.AttrOr("alt", ""))
			b.ImageSrc = strings.TrimSpace(img.AttrOr("src", ""))
		}
		b.VisibleText = visibleText(card)

		bundles = append(bundles, b)
	})

	return bundles, nil
}

// visibleText joins the card's non-empty text nodes with single spaces.
func visibleText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}
