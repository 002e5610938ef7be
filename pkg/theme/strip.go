package theme

import "regexp"

var (
	directivePattern   = regexp.MustCompile(`(?s)\{%.*?%\}`)
	placeholderPattern = regexp.MustCompile(`(?s)\{\{.*?\}\}`)
)

// stripTags removes any residual directive or placeholder syntax so no raw
// template syntax leaks into the rendered document. This is intentionally
// lossy: an unresolved variable becomes empty text rather than a missing-key
// error; callers wanting strict behavior must check before this stage.
// Stripping is idempotent.
func stripTags(text string) string {
	text = directivePattern.ReplaceAllString(text, "")
	return placeholderPattern.ReplaceAllString(text, "")
}
