// ABOUTME: Feed parser turning validated RSS 2.0 or Atom XML into normalized items
// ABOUTME: RSS items are preferred; Atom entries are used only when no RSS items exist

package feed

import (
	"time"

	"github.com/antchfx/xmlquery"

	"paperfeed-engine/core/domain"
)

// Parser extracts NormalizedItems from raw feed XML
type Parser struct {
	now func() time.Time
}

// NewParser creates a parser; now supplies the fallback publish time and may be nil
func NewParser(now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}
	return &Parser{now: now}
}

// Parse returns the items of raw in document order.
// Malformed XML is a ParseError, never an empty result.
func (p *Parser) Parse(raw []byte) ([]domain.NormalizedItem, error) {
	root, err := parseDocument(raw, "")
	if err != nil {
		return nil, err
	}
	return p.parseRoot(root), nil
}

func (p *Parser) parseRoot(root *xmlquery.Node) []domain.NormalizedItem {
	nodes := itemNodes(root)
	fetchedAt := p.now()

	items := make([]domain.NormalizedItem, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, parseItem(n, fetchedAt))
	}
	return items
}

// itemNodes collects RSS items under the first channel (or the root),
// falling back to Atom entries when there are none
func itemNodes(root *xmlquery.Node) []*xmlquery.Node {
	scope := root
	if channel := findDescendant(root, "", "channel"); channel != nil {
		scope = channel
	}
	if items := findAllDescendants(scope, "", "item"); len(items) > 0 {
		return items
	}
	return findAllDescendants(scope, nsAtom, "entry")
}

func parseItem(n *xmlquery.Node, fetchedAt time.Time) domain.NormalizedItem {
	item := domain.NormalizedItem{
		Title:      resolve(n, titleRules),
		Subtitle:   resolve(n, subtitleRules),
		Author:     resolve(n, authorRules),
		ContentURL: resolve(n, contentURLRules),
	}

	if published, ok := resolveDate(n, dateRules); ok {
		item.PublishedAt = published
	} else {
		item.PublishedAt = fetchedAt
		item.DateInferred = true
	}

	return item.Bounded()
}
