package convert

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Reverse mapping from action-glyph characters to canonical tokens.
var glyphTokens = map[string]string{
	"1": "[one-action]",
	"2": "[two-actions]",
	"3": "[three-actions]",
	"F": "[free-action]",
	"R": "[reaction]",
}

var multiBlank = regexp.MustCompile(`\n{3,}`)

// PlainText reconstructs canonical plain text from host block markup.
// HTML entities are decoded, block-level tags become blank-line paragraph
// breaks, list items become "• " prefixed lines, and inline strong/em/code
// elements are folded back to their canonical markers.
func PlainText(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		// The tokenizer is lenient; a hard failure means the input was not
		// markup at all, so return it untouched.
		return strings.TrimSpace(markup)
	}

	var sb strings.Builder

	blockBreak := func() {
		out := sb.String()
		if out != "" && !strings.HasSuffix(out, "\n\n") {
			sb.WriteString("\n\n")
		}
	}
	lineBreak := func() {
		out := sb.String()
		if out != "" && !strings.HasSuffix(out, "\n") {
			sb.WriteString("\n")
		}
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "p", "div", "ul", "ol", "h1", "h2", "h3", "h4":
				blockBreak()
			case "li":
				lineBreak()
				sb.WriteString("• ")
			case "br":
				sb.WriteString("\n")
			case "strong", "b":
				sb.WriteString("**")
			case "em", "i":
				sb.WriteString("*")
			case "code":
				sb.WriteString("`")
			case "span":
				if hasClass(n, "action-glyph") {
					if token, ok := glyphTokens[strings.TrimSpace(textContent(n))]; ok {
						sb.WriteString(token)
						return
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "strong", "b":
				sb.WriteString("**")
			case "em", "i":
				sb.WriteString("*")
			case "code":
				sb.WriteString("`")
			}
		}
	}
	walk(root)

	return tidyText(sb.String())
}

// hasClass reports whether a node's class attribute contains name.
func hasClass(n *html.Node, name string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == name {
				return true
			}
		}
	}
	return false
}

// textContent concatenates the text nodes under n.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// tidyText trims per-line whitespace and collapses runs of blank lines to
// a single paragraph break.
func tidyText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	out := strings.Join(lines, "\n")
	out = multiBlank.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
