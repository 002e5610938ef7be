package theme

import (
	"fmt"
	"regexp"
)

var includePattern = regexp.MustCompile(`\{%\s*include\s*"([^"]+)"\s*%\}`)

// resolveIncludes inlines the raw file content of every include directive,
// resolved against the theme root rather than the including template's own
// directory. A missing target becomes a visible HTML comment instead of
// failing the render. Inlining is a single pass: directives inside an
// included file's text are not reprocessed.
func (e *Engine) resolveIncludes(text string) string {
	return includePattern.ReplaceAllStringFunc(text, func(match string) string {
		path := includePattern.FindStringSubmatch(match)[1]
		content, err := e.provider.Fetch(path)
		if err != nil {
			e.logger.Debug("Include target unavailable", "path", path, "error", err)
			return fmt.Sprintf("<!-- Include not found: %s -->", path)
		}
		return content
	})
}
