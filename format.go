package autoroutes

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var word = regexp.MustCompile(`(?i)[a-z][a-z0-9]*`)

// TitleCase splits s into words, title-cases each and joins them with
// spaces, so "blog-posts" becomes "Blog Posts". A string without words is
// returned unchanged.
func TitleCase(s string) string {
	words := word.FindAllString(s, -1)
	if len(words) == 0 {
		return s
	}
	caser := cases.Title(language.Und)
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

var placeholder = regexp.MustCompile(`(?i)\{([a-z0-9_]+)\}`)

// Format replaces {name} placeholders in text with values from props.
// Placeholders without a value are left as written.
func Format(text string, props map[string]string) string {
	if len(props) == 0 {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		if v, ok := props[match[1:len(match)-1]]; ok {
			return v
		}
		return match
	})
}
