package textlayout

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Line is a single laid-out line of text.
type Line struct {
	Text  string
	Width float64
}

const ellipsis = "…"

// breakLines splits text at hard newlines, then wraps each paragraph to
// maxWidth. A maxWidth that is not a positive finite number disables
// wrapping.
func breakLines(text string, maxWidth float64, measure func(string) float64, preserveWhitespace bool) []Line {
	unconstrained := !(maxWidth > 0) || math.IsInf(maxWidth, 0)
	paragraphs := strings.Split(text, "\n")
	lines := make([]Line, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		if paragraph == "" {
			lines = append(lines, Line{})
			continue
		}
		if unconstrained {
			lines = append(lines, Line{Text: paragraph, Width: measure(paragraph)})
			continue
		}
		for _, line := range wrapParagraph(paragraph, maxWidth, measure, preserveWhitespace) {
			lines = append(lines, Line{Text: line, Width: measure(line)})
		}
	}
	return lines
}

// wrapParagraph breaks at the last whitespace that fits, or mid-word when
// a single word is wider than maxWidth. Every line holds at least one rune.
func wrapParagraph(text string, maxWidth float64, measure func(string) float64, preserveWhitespace bool) []string {
	var lines []string
	start := 0
	for start < len(text) {
		lastBreak := -1
		lastFit := -1
		for i := start; i < len(text); {
			r, size := utf8.DecodeRuneInString(text[i:])
			next := i + size
			if measure(text[start:next]) > maxWidth {
				break
			}
			lastFit = next
			if unicode.IsSpace(r) {
				lastBreak = next
			}
			i = next
		}
		if lastFit == -1 {
			_, size := utf8.DecodeRuneInString(text[start:])
			lastFit = start + size
		}
		cut := lastFit
		if lastFit < len(text) && lastBreak > start && lastBreak < lastFit {
			cut = lastBreak
		}
		line := text[start:cut]
		if !preserveWhitespace {
			line = strings.TrimRightFunc(line, unicode.IsSpace)
		}
		lines = append(lines, line)
		start = cut
		if preserveWhitespace {
			continue
		}
		for start < len(text) {
			r, size := utf8.DecodeRuneInString(text[start:])
			if !unicode.IsSpace(r) {
				break
			}
			start += size
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// truncateLines keeps the first maxLines lines. With EllipsizeTail the last
// kept line ends in an ellipsis that fits within maxWidth when possible.
func truncateLines(lines []Line, maxLines int, mode EllipsizeMode, maxWidth float64, measure func(string) float64) ([]Line, bool) {
	if maxLines <= 0 || len(lines) <= maxLines {
		return lines, false
	}
	lines = lines[:maxLines]
	if mode != EllipsizeTail {
		return lines, true
	}
	last := lines[maxLines-1].Text
	limit := maxWidth
	if !(limit > 0) || math.IsInf(limit, 0) {
		limit = math.Inf(1)
	}
	for last != "" && measure(last+ellipsis) > limit {
		_, size := utf8.DecodeLastRuneInString(last)
		last = strings.TrimRightFunc(last[:len(last)-size], unicode.IsSpace)
	}
	last += ellipsis
	lines[maxLines-1] = Line{Text: last, Width: measure(last)}
	return lines, true
}
