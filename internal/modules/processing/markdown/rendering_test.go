package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	assert.Equal(t, "", Render("   "))

	html := Render("**Hot flashes** are better\nsince yoga")
	assert.Contains(t, html, "<strong>Hot flashes</strong>")
	assert.Contains(t, html, "<br />")

	html = Render("see https://example.org/tips")
	assert.Contains(t, html, `<a target="_blank" rel="noreferrer nofollow" href="https://example.org/tips">`)

	html = Render("hello <script>alert(1)</script>")
	assert.NotContains(t, html, "<script>")
}

func TestRenderSpoiler(t *testing.T) {
	html := Render("my story ||<b>details</b>||")
	assert.Contains(t, html, `class="spoiler"`)
	assert.NotContains(t, html, "<b>details</b>")
	assert.Contains(t, html, `<span class="spoiler">&lt;b&gt;details&lt;/b&gt;</span>`)

	html = Render("a ||secret||")
	assert.Equal(t, "<p>a <span class=\"spoiler\">secret</span></p>\n", html)
	assert.NotContains(t, html, "raw HTML omitted")

	html = Render("||one|| and **bold** ||two||")
	assert.Contains(t, html, `<span class="spoiler">one</span>`)
	assert.Contains(t, html, `<span class="spoiler">two</span>`)
	assert.Contains(t, html, "<strong>bold</strong>")

	body := strings.Repeat("||x|| ", 11)
	html = Render(body)
	assert.Equal(t, 11, strings.Count(html, `<span class="spoiler">x</span>`))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Title some bold text", Excerpt("# Title\n\nsome **bold** text", 0))
	assert.Equal(t, "abc…", Excerpt("abcdef", 3))
	assert.Equal(t, "नमस्ते", Excerpt("नमस्ते", 6))
	assert.Equal(t, "hidden ...", Excerpt("hidden ||secret||", 0))
}
