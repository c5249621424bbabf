// Package extract turns landing page HTML into compact evaluation text.
package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

const (
	maxHeadings       = 5
	maxH1             = 3
	maxH2             = 5
	minHeadingLen     = 5
	minContainerText  = 100
	maxMainContentLen = 2000
	maxTextInputs     = 3
)

// containerSelectors are tried in order for the main content area
var containerSelectors = []func(*html.Node) bool{
	isTag("main"),
	isTag("article"),
	hasAttr("role", "main"),
	hasClass("content"),
	hasAttr("id", "content"),
	hasClass("main"),
}

var urgencyPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"timer", regexp.MustCompile(`timer`)},
	{"countdown", regexp.MustCompile(`countdown`)},
	{"expires in", regexp.MustCompile(`expires?\s+in`)},
	{"limited time", regexp.MustCompile(`limited\s+time`)},
	{"act now", regexp.MustCompile(`act\s+now`)},
}

var whitespace = regexp.MustCompile(`\s+`)

// LandingText extracts the title, descriptions, headings, main content and
// warning signs of a page, one labelled line each
func LandingText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var parts []string

	if title := findFirst(doc, isTag("title")); title != nil {
		if t := collapse(visibleText(title)); t != "" {
			parts = append(parts, "Page Title: "+t)
		}
	}
	if c := metaContent(doc, "name", "description"); c != "" {
		parts = append(parts, "Description: "+c)
	}
	if c := metaContent(doc, "property", "og:title"); c != "" {
		parts = append(parts, "OG Title: "+c)
	}
	if c := metaContent(doc, "property", "og:description"); c != "" {
		parts = append(parts, "OG Description: "+c)
	}

	if headings := collectHeadings(doc); len(headings) > 0 {
		parts = append(parts, "Headings: "+strings.Join(headings, " | "))
	}

	if main := mainContent(doc); main != "" {
		parts = append(parts, "Page Content: "+truncateRunes(main, maxMainContentLen))
	}

	if signs := warningSigns(doc); len(signs) > 0 {
		parts = append(parts, "Warning Signs: "+strings.Join(signs, "; "))
	}

	return strings.Join(parts, "\n"), nil
}

func collectHeadings(doc *html.Node) []string {
	var headings []string
	for _, n := range findAll(doc, isTag("h1"), maxH1) {
		if t := collapse(visibleText(n)); len(t) > minHeadingLen {
			headings = append(headings, t)
		}
	}
	for _, n := range findAll(doc, isTag("h2"), maxH2) {
		if t := collapse(visibleText(n)); len(t) > minHeadingLen {
			headings = append(headings, t)
		}
	}
	if len(headings) > maxHeadings {
		headings = headings[:maxHeadings]
	}
	return headings
}

func mainContent(doc *html.Node) string {
	var content string
	for _, match := range containerSelectors {
		if n := findFirst(doc, match); n != nil {
			content = collapse(visibleText(n))
			if len(content) > minContainerText {
				return content
			}
		}
	}
	if body := findFirst(doc, isTag("body")); body != nil {
		content = collapse(visibleText(body))
	}
	return content
}

func warningSigns(doc *html.Node) []string {
	var signs []string

	for _, form := range findAll(doc, isTag("form"), 0) {
		suspicious, textInputs := 0, 0
		for _, input := range findAll(form, isTag("input"), 0) {
			switch strings.ToLower(attr(input, "type")) {
			case "password", "hidden":
				suspicious++
			case "text", "email", "tel":
				textInputs++
			}
		}
		if suspicious > 0 || textInputs > maxTextInputs {
			signs = append(signs, "Form collecting personal data detected")
			break
		}
	}

	page := strings.ToLower(visibleText(doc))
	for _, p := range urgencyPatterns {
		if p.re.MatchString(page) {
			signs = append(signs, "Urgency element detected: "+p.label)
			break
		}
	}
	return signs
}

// visibleText concatenates text nodes, skipping non-content elements
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "svg":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

func metaContent(doc *html.Node, key, value string) string {
	n := findFirst(doc, func(n *html.Node) bool {
		return n.Data == "meta" && strings.EqualFold(attr(n, key), value)
	})
	if n == nil {
		return ""
	}
	return strings.TrimSpace(attr(n, "content"))
}

func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	found := findAll(root, match, 1)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// findAll returns matching elements in document order; limit 0 means all
func findAll(root *html.Node, match func(*html.Node) bool, limit int) []*html.Node {
	var out []*html.Node

	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
			if limit > 0 && len(out) >= limit {
				return false
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}

	walk(root)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func isTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Data == tag }
}

func hasAttr(key, value string) func(*html.Node) bool {
	return func(n *html.Node) bool { return attr(n, key) == value }
}

func hasClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		for _, c := range strings.Fields(attr(n, "class")) {
			if c == class {
				return true
			}
		}
		return false
	}
}

func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
