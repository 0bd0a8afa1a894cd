// Package textnorm cleans target and context text before it reaches a
// synthesis backend. Models choke on markup and typographic glyphs, so
// normalization here keeps the gateway payloads plain.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	urlRe        = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	emailRe      = regexp.MustCompile(`\S+@\S+\.\S+`)
)

// Clean normalizes text for synthesis: NFC form, no URLs/markup/emails,
// ASCII quotes and punctuation, collapsed whitespace.
func Clean(text string) string {
	text = norm.NFC.String(text)
	text = urlRe.ReplaceAllString(text, "")
	text = htmlTagRe.ReplaceAllString(text, "")
	text = emailRe.ReplaceAllString(text, "")
	text = normalizeQuotes(text)
	text = normalizePunctuation(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func normalizeQuotes(text string) string {
	text = strings.ReplaceAll(text, "“", "\"")
	text = strings.ReplaceAll(text, "”", "\"")
	text = strings.ReplaceAll(text, "‘", "'")
	text = strings.ReplaceAll(text, "’", "'")
	text = strings.ReplaceAll(text, "«", "\"")
	text = strings.ReplaceAll(text, "»", "\"")
	return text
}

func normalizePunctuation(text string) string {
	text = strings.ReplaceAll(text, "—", ", ")
	text = strings.ReplaceAll(text, "–", ", ")
	text = strings.ReplaceAll(text, "…", "...")
	text = strings.ReplaceAll(text, "•", ",")
	return text
}
