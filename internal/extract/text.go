package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// VisibleText returns the human-visible text of raw. Raw extracts that look
// like HTML are parsed and reduced to their text nodes; anything else is
// returned unchanged.
func VisibleText(raw string) string {
	if !looksLikeHTML(raw) {
		return raw
	}

	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return raw
	}

	return strings.TrimSpace(extractVisibleText(doc))
}

func looksLikeHTML(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range []string{"<html", "<body", "<div", "<p>", "<p ", "<span", "<li", "<table", "<br"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template":
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

		// Block elements end a sentence even when the markup omits punctuation
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "li", "div", "tr", "h1", "h2", "h3", "h4", "h5", "h6", "br":
				terminateSentence(&buf)
			}
		}
	}

	walk(n)
	return buf.String()
}

func terminateSentence(buf *strings.Builder) {
	s := strings.TrimRight(buf.String(), " ")
	if s == "" {
		return
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return
	}
	buf.Reset()
	buf.WriteString(s)
	buf.WriteString(". ")
}

// SplitSentences splits text on '.', '!' and '?' when the terminator is
// followed by whitespace or ends the text. Terminators inside tokens such as
// "2.5" or "e.g" do not split.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			next := i + 1
			if next >= len(text) || isSpaceByte(text[next]) {
				if sentence := strings.TrimSpace(current.String()); sentence != "" {
					sentences = append(sentences, sentence)
				}
				current.Reset()
			}
		}
	}

	if sentence := strings.TrimSpace(current.String()); sentence != "" {
		sentences = append(sentences, sentence)
	}

	return sentences
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// Words lowercases text and splits it into letter/digit runs
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// SignificantWords returns the distinct words of text that are at least
// minLen runes long, in order of first appearance.
func SignificantWords(text string, minLen int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range Words(text) {
		if utf8.RuneCountInString(w) < minLen || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// Truncate returns at most n runes of s
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
