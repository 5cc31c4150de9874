package export

import (
	"regexp"
	"strings"
)

// The conversion strips Markdown syntax while keeping the text and its
// structure, so a study summary can be pasted straight into a DOCX document.
// Rules apply in order; code blocks go first so their contents never match
// the inline rules.
var (
	codeBlockRe     = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe    = regexp.MustCompile("`([^`]+)`")
	headerRe        = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	boldRe          = regexp.MustCompile(`(\*\*|__)(.*?)(\*\*|__)`)
	italicRe        = regexp.MustCompile(`(\*|_)(.*?)(\*|_)`)
	strikethroughRe = regexp.MustCompile(`~~(.*?)~~`)
	imageRe         = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkRe          = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	bulletRe        = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedRe      = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	horizontalRe    = regexp.MustCompile(`(?m)^\s*[-*_]{3,}\s*$`)
	blockquoteRe    = regexp.MustCompile(`(?m)^>\s+`)
	blankLinesRe    = regexp.MustCompile(`\n{3,}`)
)

// PlainText converts Markdown to plain text suitable for word processors.
func PlainText(markdown string) string {
	text := markdown

	text = codeBlockRe.ReplaceAllString(text, "")
	text = inlineCodeRe.ReplaceAllString(text, "$1")
	text = headerRe.ReplaceAllString(text, "$1")
	text = boldRe.ReplaceAllString(text, "$2")
	text = italicRe.ReplaceAllString(text, "$2")
	text = strikethroughRe.ReplaceAllString(text, "$1")
	text = imageRe.ReplaceAllString(text, "")
	text = linkRe.ReplaceAllString(text, "$1")
	text = bulletRe.ReplaceAllString(text, "")
	text = numberedRe.ReplaceAllString(text, "")
	text = horizontalRe.ReplaceAllString(text, "")
	text = blockquoteRe.ReplaceAllString(text, "")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
