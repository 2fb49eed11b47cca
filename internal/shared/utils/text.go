package utils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// StripTags returns the text content of an HTML fragment. Script and style
// bodies are dropped, entities are decoded.
func StripTags(fragment string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				skip++
			case "br", "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6":
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				if skip > 0 {
					skip--
				}
			case "p", "div", "li":
				b.WriteByte('\n')
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" {
				b.WriteByte('\n')
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// CollapseWhitespace trims and squeezes every whitespace run to one space
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeParagraphs collapses whitespace inside each line and drops empty
// lines, keeping paragraph breaks as single newlines
func NormalizeParagraphs(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, line := range lines {
		if l := CollapseWhitespace(line); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// PlainTextLength counts the runes a reader sees once tags are removed.
// Paragraph breaks are not counted.
func PlainTextLength(body string) int {
	text := NormalizeParagraphs(StripTags(body))
	return utf8.RuneCountInString(strings.ReplaceAll(text, "\n", ""))
}

// Excerpt returns at most n runes of plain text, ellipsized
func Excerpt(body string, n int) string {
	text := CollapseWhitespace(StripTags(body))
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	r := []rune(text)
	return strings.TrimSpace(string(r[:n])) + "..."
}

// DisplayName falls back first+last, first, last, username
func DisplayName(username, first, last string) string {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	default:
		return username
	}
}
