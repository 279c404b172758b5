// Package normalize forces a markup tree into a print-deterministic layout.
//
// Every element gets an explicit display mode derived from its tag, never
// inherited, and an explicit visibility. Ambient stylesheets and collapsed or
// hidden states of the source application therefore cannot reach the raster.
package normalize

import (
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// GroupAttr marks the block of one record group.
const GroupAttr = "data-group"

const (
	cellBorder  = "1px solid #ddd"
	cellPadding = "8px"
)

// non-visual elements keep their own display so their content never renders.
var skipped = map[atom.Atom]bool{
	atom.Style:    true,
	atom.Script:   true,
	atom.Template: true,
	atom.Noscript: true,
	atom.Head:     true,
	atom.Title:    true,
	atom.Meta:     true,
	atom.Link:     true,
}

// Normalize rewrites the inline style of root and all its descendant elements
// in place and returns root.
func Normalize(root *html.Node) *html.Node {
	walk(root, func(n *html.Node) {
		removeAttr(n, "hidden")
		force(n, rulesFor(n))
	})
	return root
}

// Verify returns an error naming the first element without an explicit
// display mode or with a visibility other than visible.
func Verify(root *html.Node) error {
	var failure error
	walk(root, func(n *html.Node) {
		if failure != nil {
			return
		}
		style := InlineStyle(n)
		if style["display"] == "" {
			failure = fmt.Errorf("<%s> has no explicit display", n.Data)
			return
		}
		if style["visibility"] != "visible" {
			failure = fmt.Errorf("<%s> is not forced visible", n.Data)
		}
	})
	return failure
}

// DisplayFor is the display mode Normalize assigns to an element.
func DisplayFor(n *html.Node) string {
	switch n.DataAtom {
	case atom.Table:
		return "table"
	case atom.Thead:
		return "table-header-group"
	case atom.Tbody:
		return "table-row-group"
	case atom.Tfoot:
		return "table-footer-group"
	case atom.Tr:
		return "table-row"
	case atom.Td, atom.Th:
		return "table-cell"
	case atom.Caption:
		return "table-caption"
	case atom.Colgroup:
		return "table-column-group"
	case atom.Col:
		return "table-column"
	}
	return "block"
}

func rulesFor(n *html.Node) []declaration {
	rules := []declaration{
		{property: "display", value: DisplayFor(n)},
		{property: "visibility", value: "visible"},
	}

	switch n.DataAtom {
	case atom.Table:
		rules = append(rules,
			declaration{property: "width", value: "100%"},
			declaration{property: "border-collapse", value: "collapse"},
			declaration{property: "margin-bottom", value: "10px"},
		)
	case atom.Tr:
		rules = append(rules, declaration{property: "page-break-inside", value: "avoid"})
	case atom.Td:
		rules = append(rules, cellRules()...)
	case atom.Th:
		rules = append(rules, cellRules()...)
		rules = append(rules,
			declaration{property: "background-color", value: "#f2f2f2"},
			declaration{property: "font-weight", value: "bold"},
		)
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		rules = append(rules,
			declaration{property: "margin-bottom", value: "10px"},
			declaration{property: "page-break-after", value: "avoid"},
		)
	}

	if hasAttr(n, GroupAttr) {
		rules = append(rules,
			declaration{property: "page-break-inside", value: "avoid"},
			declaration{property: "border", value: cellBorder},
			declaration{property: "padding", value: "15px"},
			declaration{property: "margin-bottom", value: "20px"},
			declaration{property: "background-color", value: "#ffffff"},
		)
	}
	return rules
}

func cellRules() []declaration {
	return []declaration{
		{property: "border", value: cellBorder},
		{property: "padding", value: cellPadding},
		{property: "text-align", value: "left"},
	}
}

// force drops any existing declaration of a forced property and appends the
// forced ones as !important.
func force(n *html.Node, rules []declaration) {
	forced := make(map[string]bool, len(rules))
	for _, r := range rules {
		forced[r.property] = true
	}

	var decls []declaration
	for _, d := range parseStyle(attr(n, "style")) {
		if !forced[d.property] {
			decls = append(decls, d)
		}
	}
	for _, r := range rules {
		decls = append(decls, declaration{property: r.property, value: r.value + " !important"})
	}
	setAttr(n, "style", formatStyle(decls))
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		if skipped[n.DataAtom] {
			return
		}
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
