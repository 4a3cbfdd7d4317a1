package match

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	googleSuffix = regexp.MustCompile(`(?i)\s*[-–|]\s*(Google|Cloud Skills Boost|Skills Boost|Google Skills).*$`)
	credlySuffix = regexp.MustCompile(`(?i)\s*[-–|]\s*Credly.*$`)
)

// ExtractProfileName pulls the owner name out of a public profile page.
// Extraction tries progressively weaker markers: the profile-name heading,
// the page title with the platform suffix stripped, the og:title meta tag,
// and finally any top-level heading.
func ExtractProfileName(body []byte) (string, bool) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", false
	}

	if node := findElementWithClass(doc, atom.H1, "profile-name"); node != nil {
		if text := nodeText(node); text != "" {
			return text, true
		}
	}
	if title := pageTitle(doc); title != "" {
		if name := strings.TrimSpace(googleSuffix.ReplaceAllString(title, "")); name != "" {
			return name, true
		}
	}
	if content := metaProperty(doc, "og:title"); content != "" {
		return content, true
	}
	for _, tag := range []atom.Atom{atom.H1, atom.H2} {
		if node := findElement(doc, tag); node != nil {
			if text := nodeText(node); text != "" {
				return text, true
			}
		}
	}
	return "", false
}

// ExtractBadgeTitle pulls the course title out of a badge page. Credly and
// Google Skills Boost decorate titles differently, so the platform picks the
// suffix to strip.
func ExtractBadgeTitle(body []byte, credly bool) (string, bool) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", false
	}

	suffix := googleSuffix
	if credly {
		suffix = credlySuffix
	}

	for _, class := range []string{"badge-name", "badge-title"} {
		if node := findElementWithClass(doc, atom.H1, class); node != nil {
			if text := nodeText(node); text != "" {
				return text, true
			}
		}
	}
	if content := metaProperty(doc, "og:title"); content != "" {
		if title := strings.TrimSpace(suffix.ReplaceAllString(content, "")); title != "" {
			return title, true
		}
	}
	if title := pageTitle(doc); title != "" {
		if stripped := strings.TrimSpace(suffix.ReplaceAllString(title, "")); stripped != "" {
			return stripped, true
		}
	}
	if node := findElement(doc, atom.H1); node != nil {
		if text := nodeText(node); text != "" {
			return text, true
		}
	}
	return "", false
}

func findElement(n *html.Node, tag atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func findElementWithClass(n *html.Node, tag atom.Atom, class string) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == tag && hasClass(n, class) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElementWithClass(child, tag, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, candidate := range strings.Fields(attr.Val) {
			if strings.EqualFold(candidate, class) {
				return true
			}
		}
	}
	return false
}

func pageTitle(doc *html.Node) string {
	node := findElement(doc, atom.Title)
	if node == nil {
		return ""
	}
	return nodeText(node)
}

func metaProperty(n *html.Node, property string) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Meta {
		var prop, content string
		for _, attr := range n.Attr {
			switch attr.Key {
			case "property":
				prop = attr.Val
			case "content":
				content = attr.Val
			}
		}
		if strings.EqualFold(prop, property) {
			return strings.TrimSpace(content)
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := metaProperty(child, property); found != "" {
			return found
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var builder strings.Builder
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.TextNode {
			builder.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(builder.String()), " ")
}
