package coach

import (
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// inlineTags may appear inside a single recommendation.
var inlineTags = map[atom.Atom]bool{
	atom.Strong: true,
	atom.Em:     true,
	atom.B:      true,
	atom.I:      true,
	atom.Code:   true,
	atom.Br:     true,
}

// planTags may appear in a stored plan.
var planTags = map[atom.Atom]bool{
	atom.Ul: true,
	atom.Ol: true,
	atom.Li: true,
	atom.P:  true,
}

func init() {
	for a := range inlineTags {
		planTags[a] = true
	}
}

// dropped elements lose their content too.
var dropped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Template: true,
}

// SanitizeFragment reduces an HTML fragment to list and emphasis tags
// without attributes. Other elements are unwrapped, scripts and styles
// removed, and text re-escaped. The result is safe to render verbatim.
func SanitizeFragment(s string) string {
	return sanitize(s, planTags)
}

func sanitize(s string, allowed map[atom.Atom]bool) string {
	ctx := &nethtml.Node{Type: nethtml.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := nethtml.ParseFragment(strings.NewReader(s), ctx)
	if err != nil {
		return html.EscapeString(s)
	}
	var b strings.Builder
	for _, n := range nodes {
		render(&b, n, allowed)
	}
	return b.String()
}

func render(b *strings.Builder, n *nethtml.Node, allowed map[atom.Atom]bool) {
	switch n.Type {
	case nethtml.TextNode:
		b.WriteString(html.EscapeString(n.Data))
		return
	case nethtml.ElementNode:
		if dropped[n.DataAtom] {
			return
		}
		if !allowed[n.DataAtom] {
			break
		}
		tag := n.DataAtom.String()
		b.WriteString("<" + tag + ">")
		if n.DataAtom == atom.Br {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			render(b, c, allowed)
		}
		b.WriteString("</" + tag + ">")
		return
	case nethtml.CommentNode, nethtml.DoctypeNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		render(b, c, allowed)
	}
}

// PlanItems returns the plain text of each list item of a plan, or the
// whole text as one item when the plan has no list.
func PlanItems(plan string) []string {
	ctx := &nethtml.Node{Type: nethtml.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := nethtml.ParseFragment(strings.NewReader(plan), ctx)
	if err != nil {
		return nil
	}

	var items []string
	var walk func(n *nethtml.Node)
	walk = func(n *nethtml.Node) {
		if n.Type == nethtml.ElementNode && n.DataAtom == atom.Li {
			if t := strings.Join(strings.Fields(textOf(n)), " "); t != "" {
				items = append(items, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	var all strings.Builder
	for _, n := range nodes {
		walk(n)
		all.WriteString(textOf(n))
	}
	if len(items) == 0 {
		if t := strings.Join(strings.Fields(all.String()), " "); t != "" {
			items = append(items, t)
		}
	}
	return items
}

func textOf(n *nethtml.Node) string {
	switch n.Type {
	case nethtml.TextNode:
		return n.Data
	case nethtml.ElementNode:
		if dropped[n.DataAtom] {
			return ""
		}
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
	}
	return b.String()
}
