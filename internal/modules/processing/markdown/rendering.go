// Package markdown renders community post bodies to HTML.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in member content is dropped by goldmark's default (safe) renderer.
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Strikethrough,
		extension.Linkify,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

var (
	spoilerPattern = regexp.MustCompile(`\|\|([\s\S]+?)\|\|`)
	linkPattern    = regexp.MustCompile(`(?is)<a href="`)
	markupPattern  = regexp.MustCompile(`(?m)^\s{0,3}(#{1,6}\s+|>\s?|[-*+]\s+|\d+\.\s+)|[*_~` + "`" + `]+`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// Render converts post markdown to HTML. ||text|| becomes a spoiler span,
// used for content members flag as sensitive.
func Render(markdownText string) string {
	text := strings.TrimSpace(markdownText)
	if text == "" {
		return ""
	}
	text, spoilers := extractSpoilers(text)

	var out bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &out); err != nil {
		return template.HTMLEscapeString(markdownText)
	}
	return spoilers.Replace(rewriteLinks(out.String()))
}

// Excerpt returns a plain-text preview of at most n runes.
func Excerpt(markdownText string, n int) string {
	text := spoilerPattern.ReplaceAllString(markdownText, "...")
	text = markupPattern.ReplaceAllString(text, "")
	text = strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:n])) + "…"
}

// extractSpoilers swaps every ||text|| for an alphanumeric token that
// markdown leaves alone, and returns the replacer that turns the tokens into
// escaped spoiler spans once the HTML is rendered.
func extractSpoilers(text string) (string, *strings.Replacer) {
	nonce := strings.ReplaceAll(uuid.NewString(), "-", "")
	var pairs []string
	text = spoilerPattern.ReplaceAllStringFunc(text, func(raw string) string {
		match := spoilerPattern.FindStringSubmatch(raw)
		if len(match) < 2 {
			return raw
		}
		token := fmt.Sprintf("spoiler%s%dend", nonce, len(pairs)/2)
		content := template.HTMLEscapeString(strings.TrimSpace(match[1]))
		pairs = append(pairs, token, `<span class="spoiler">`+content+`</span>`)
		return token
	})
	return text, strings.NewReplacer(pairs...)
}

// rewriteLinks opens member links outside the app without leaking referrers.
func rewriteLinks(html string) string {
	return linkPattern.ReplaceAllString(html, `<a target="_blank" rel="noreferrer nofollow" href="`)
}
