package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkup(t *testing.T) {
	got := StripMarkup().Apply("<p>Hello **world** `code`</p>")
	assert.NotContains(t, got, "<p>")
	assert.NotContains(t, got, "*")
	assert.NotContains(t, got, "`")
	assert.Contains(t, got, "Hello")
	assert.Contains(t, got, "world")
}

func TestNormalizeWhitespace(t *testing.T) {
	got := NormalizeWhitespace().Apply("  too\t\tmany \n\n spaces  ")
	assert.Equal(t, "too many spaces", got)
}

func TestEnforceLength(t *testing.T) {
	tr := EnforceLength(10, 20)

	assert.Equal(t, "", tr.Apply("too short"))
	assert.Equal(t, "exactly long enough!", tr.Apply("exactly long enough!"))
	assert.Len(t, []rune(tr.Apply(strings.Repeat("x", 50))), 20)
}

func TestDefaultTransformationsPipeline(t *testing.T) {
	body := "<div># A   useful\n\narticle body with enough text</div>"
	got := applyTransformations(body, DefaultTransformations())
	assert.Equal(t, "A useful article body with enough text", got)
}

func TestTransformationsDropEmptiedBody(t *testing.T) {
	got := applyTransformations("<br/>", DefaultTransformations())
	assert.Equal(t, "", got)
}
