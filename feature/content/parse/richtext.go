package parse

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Inline replacements applied inside a single line, innermost first so
// `code` spans are not re-processed for emphasis markers.
var (
	codeSpan   = regexp.MustCompile("`([^`]+)`")
	boldSpan   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicSpan = regexp.MustCompile(`\*([^*]+)\*`)
	glyphSpan  = regexp.MustCompile(`\[(one-action|two-actions|three-actions|free-action|reaction)\]`)
)

// Action-cost glyph characters used by the host's action-glyph font.
var glyphChars = map[string]string{
	"one-action":    "1",
	"two-actions":   "2",
	"three-actions": "3",
	"free-action":   "F",
	"reaction":      "R",
}

// RichText converts canonical plain text into host block markup.
// Paragraphs are delimited by blank lines; contiguous bullet lines
// (prefixed "• ", "- " or "* ") collapse into a single list block.
func RichText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	var blocks []string
	var paragraph []string
	var bullets []string

	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		blocks = append(blocks, "<p>"+formatInline(strings.Join(paragraph, " "))+"</p>")
		paragraph = nil
	}
	flushBullets := func() {
		if len(bullets) == 0 {
			return
		}
		var sb strings.Builder
		sb.WriteString("<ul>")
		for _, b := range bullets {
			sb.WriteString("<li>" + formatInline(b) + "</li>")
		}
		sb.WriteString("</ul>")
		blocks = append(blocks, sb.String())
		bullets = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flushParagraph()
			flushBullets()
			continue
		}
		if item, ok := bulletText(trimmed); ok {
			flushParagraph()
			bullets = append(bullets, item)
			continue
		}
		flushBullets()
		paragraph = append(paragraph, trimmed)
	}
	flushParagraph()
	flushBullets()

	return strings.Join(blocks, "")
}

// bulletText strips a recognized list marker, reporting whether one existed.
func bulletText(line string) (string, bool) {
	for _, marker := range []string{"• ", "- ", "* "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker)), true
		}
	}
	return line, false
}

// formatInline escapes the text and applies inline markers and glyphs.
func formatInline(text string) string {
	text = html.EscapeString(text)
	text = codeSpan.ReplaceAllString(text, "<code>$1</code>")
	text = boldSpan.ReplaceAllString(text, "<strong>$1</strong>")
	text = italicSpan.ReplaceAllString(text, "<em>$1</em>")
	text = glyphSpan.ReplaceAllStringFunc(text, func(m string) string {
		name := strings.Trim(m, "[]")
		return fmt.Sprintf(`<span class="action-glyph">%s</span>`, glyphChars[name])
	})
	return text
}
