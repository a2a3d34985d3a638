package migration

import (
	"regexp"
	"strings"
)

// Transformation rewrites one text field during migration.
type Transformation struct {
	Name  string
	Apply func(string) string
}

var (
	htmlTagPattern  = regexp.MustCompile(`<[^>]+>`)
	markdownPattern = regexp.MustCompile("[*_`#>\\[\\]]")
	spacesPattern   = regexp.MustCompile(`\s+`)
)

// StripMarkup removes HTML tags and markdown punctuation.
func StripMarkup() Transformation {
	return Transformation{
		Name: "strip_markup",
		Apply: func(s string) string {
			s = htmlTagPattern.ReplaceAllString(s, " ")
			return markdownPattern.ReplaceAllString(s, "")
		},
	}
}

// NormalizeWhitespace collapses runs of whitespace to single spaces.
func NormalizeWhitespace() Transformation {
	return Transformation{
		Name: "normalize_whitespace",
		Apply: func(s string) string {
			return strings.TrimSpace(spacesPattern.ReplaceAllString(s, " "))
		},
	}
}

// EnforceLength drops text shorter than min (returns "") and truncates text
// longer than max at a rune boundary.
func EnforceLength(min, max int) Transformation {
	return Transformation{
		Name: "enforce_length",
		Apply: func(s string) string {
			runes := []rune(s)
			if len(runes) < min {
				return ""
			}
			if max > 0 && len(runes) > max {
				return string(runes[:max])
			}
			return s
		},
	}
}

// DefaultTransformations is the standard pipeline: strip markup, normalize
// whitespace, enforce 10..100k characters.
func DefaultTransformations() []Transformation {
	return []Transformation{
		StripMarkup(),
		NormalizeWhitespace(),
		EnforceLength(10, 100_000),
	}
}

func applyTransformations(text string, transformations []Transformation) string {
	for _, t := range transformations {
		text = t.Apply(text)
	}
	return text
}
