// ABOUTME: Ordered fallback rules for extracting item fields from RSS and Atom
// ABOUTME: Each field is a list of (selector, extractor) pairs evaluated first-match-wins

package feed

import (
	"time"

	"github.com/antchfx/xmlquery"

	utiltime "paperfeed-engine/pkg/utils/time"
)

// selector locates a candidate element within an item
type selector func(item *xmlquery.Node) *xmlquery.Node

// extractor reads a string value from a located element
type extractor func(n *xmlquery.Node) string

type fieldRule struct {
	name    string
	find    selector
	extract extractor
}

func child(ns, local string) selector {
	return func(item *xmlquery.Node) *xmlquery.Node {
		return findChild(item, ns, local)
	}
}

func descendant(ns, local string) selector {
	return func(item *xmlquery.Node) *xmlquery.Node {
		return findDescendant(item, ns, local)
	}
}

// atomAuthorName finds the first <name> below any Atom <author>
func atomAuthorName(item *xmlquery.Node) *xmlquery.Node {
	for _, author := range findAllDescendants(item, nsAtom, "author") {
		if name := findDescendant(author, nsAtom, "name"); name != nil {
			return name
		}
	}
	return nil
}

// atomHTMLLink finds an Atom <link rel="alternate" type="text/html">
func atomHTMLLink(item *xmlquery.Node) *xmlquery.Node {
	for _, link := range findAllDescendants(item, nsAtom, "link") {
		if attr(link, "rel") == "alternate" && attr(link, "type") == "text/html" {
			return link
		}
	}
	return nil
}

// textOrHref prefers the element's text over its href attribute
func textOrHref(n *xmlquery.Node) string {
	if t := text(n); t != "" {
		return t
	}
	return attr(n, "href")
}

var titleRules = []fieldRule{
	{"rss title", child("", "title"), text},
	{"atom title", descendant(nsAtom, "title"), text},
}

var subtitleRules = []fieldRule{
	{"description", child("", "description"), text},
	{"summary", child("", "summary"), text},
	{"content:encoded", descendant(nsContent, "encoded"), text},
	{"atom summary", descendant(nsAtom, "summary"), text},
	{"atom content", descendant(nsAtom, "content"), text},
}

var authorRules = []fieldRule{
	{"author", child("", "author"), text},
	{"dc:creator", child(nsDC, "creator"), text},
	{"atom author name", atomAuthorName, text},
}

var contentURLRules = []fieldRule{
	{"rss link", child("", "link"), textOrHref},
	{"atom html link", atomHTMLLink, textOrHref},
	{"atom link", descendant(nsAtom, "link"), textOrHref},
}

var dateRules = []fieldRule{
	{"pubDate", child("", "pubDate"), text},
	{"dc:date", child(nsDC, "date"), text},
	{"atom published", descendant(nsAtom, "published"), text},
	{"atom updated", descendant(nsAtom, "updated"), text},
}

// resolve returns the first non-empty value produced by rules
func resolve(item *xmlquery.Node, rules []fieldRule) string {
	for _, r := range rules {
		n := r.find(item)
		if n == nil {
			continue
		}
		if v := r.extract(n); v != "" {
			return v
		}
	}
	return ""
}

// resolveDate returns the first rule value that normalizes to a date
func resolveDate(item *xmlquery.Node, rules []fieldRule) (time.Time, bool) {
	for _, r := range rules {
		n := r.find(item)
		if n == nil {
			continue
		}
		if t, ok := utiltime.Normalize(r.extract(n)); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
