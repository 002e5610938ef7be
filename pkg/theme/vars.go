package theme

import (
	"regexp"
	"strings"
)

var defaultPattern = regexp.MustCompile(`\{\{\s*(\w+)\s*\|\s*default\(value="([^"]+)"\)\s*\}\}`)

// substituteVariables replaces the two canonical placeholder forms,
// "{{ key }}" and "{{key}}", for every bound key, then collapses
// default-qualified placeholders. Replacement is exact string matching, not
// expression evaluation: a placeholder with irregular spacing never
// substitutes and is left for the strip stage.
func substituteVariables(text string, ctx Context, cfg Config) string {
	for key, value := range ctx {
		text = strings.ReplaceAll(text, "{{ "+key+" }}", value)
		text = strings.ReplaceAll(text, "{{"+key+"}}", value)
	}

	// The legacy engine collapses the default filter to its literal even
	// when the identifier is bound in the context. PreferBoundOverDefault
	// opts into resolving the identifier first.
	return defaultPattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := defaultPattern.FindStringSubmatch(match)
		if cfg.PreferBoundOverDefault {
			if value, ok := ctx[sub[1]]; ok {
				return value
			}
		}
		return sub[2]
	})
}
