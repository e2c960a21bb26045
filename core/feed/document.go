// ABOUTME: XML document helpers shared by the fetcher and the parser
// ABOUTME: Wraps xmlquery parsing and namespace-aware element lookups

package feed

import (
	"bytes"
	"errors"
	"strings"

	"github.com/antchfx/xmlquery"

	coreerrors "paperfeed-engine/core/errors"
)

// Namespaces recognized by the parser
const (
	nsAtom    = "http://www.w3.org/2005/Atom"
	nsDC      = "http://purl.org/dc/elements/1.1/"
	nsContent = "http://purl.org/rss/1.0/modules/content/"
)

var errNoRoot = errors.New("document has no root element")

// parseDocument parses raw XML and returns its root element
func parseDocument(raw []byte, feedURL string) (*xmlquery.Node, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &coreerrors.ParseError{URL: feedURL, Err: errors.New("empty document")}
	}

	doc, err := xmlquery.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, &coreerrors.ParseError{URL: feedURL, Err: err}
	}

	root := firstElement(doc)
	if root == nil {
		return nil, &coreerrors.ParseError{URL: feedURL, Err: errNoRoot}
	}
	return root, nil
}

// validateShape accepts <rss>, an Atom-style <feed> in any namespace,
// or any document containing an unqualified <channel>
func validateShape(root *xmlquery.Node, feedURL string) error {
	switch {
	case root.Data == "rss", root.Data == "feed":
		return nil
	case findDescendant(root, "", "channel") != nil:
		return nil
	}
	return &coreerrors.ValidationError{
		URL:     feedURL,
		RootTag: root.Data,
		Message: "expected rss, feed or a channel element",
	}
}

func firstElement(n *xmlquery.Node) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

func matches(n *xmlquery.Node, ns, local string) bool {
	return n.Type == xmlquery.ElementNode && n.Data == local && n.NamespaceURI == ns
}

// findChild returns the first direct child element with the given name
func findChild(n *xmlquery.Node, ns, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if matches(c, ns, local) {
			return c
		}
	}
	return nil
}

// findDescendant returns the first matching element below n in document order
func findDescendant(n *xmlquery.Node, ns, local string) *xmlquery.Node {
	var found *xmlquery.Node
	walk(n, func(c *xmlquery.Node) bool {
		if matches(c, ns, local) {
			found = c
			return false
		}
		return true
	})
	return found
}

// findAllDescendants returns every matching element below n in document order
func findAllDescendants(n *xmlquery.Node, ns, local string) []*xmlquery.Node {
	var found []*xmlquery.Node
	walk(n, func(c *xmlquery.Node) bool {
		if matches(c, ns, local) {
			found = append(found, c)
		}
		return true
	})
	return found
}

// walk visits descendants of n depth-first until visit returns false
func walk(n *xmlquery.Node, visit func(*xmlquery.Node) bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if !visit(c) || !walk(c, visit) {
			return false
		}
	}
	return true
}

// attr returns an unprefixed attribute value
func attr(n *xmlquery.Node, name string) string {
	for _, a := range n.Attr {
		if a.Name.Local == name && a.Name.Space == "" {
			return a.Value
		}
	}
	return ""
}

// text concatenates literal and CDATA text below n and trims it
func text(n *xmlquery.Node) string {
	return strings.TrimSpace(n.InnerText())
}
