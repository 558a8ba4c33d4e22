package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	html := Render("# Title\n\n**bold** text\n\n- one\n- two\n\n---\n*note*")

	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, "<li>one</li>")
	assert.Contains(t, html, "<hr />")
	assert.Contains(t, html, "<em>note</em>")
}

func TestRenderEmpty(t *testing.T) {
	assert.Empty(t, Render("  \n"))
}
