package theme

import "regexp"

var extendsPattern = regexp.MustCompile(`\{%\s*extends\s*"([^"]+)"\s*%\}`)

// resolveInheritance applies the child's blocks to the base template named
// by the child's first extends directive. A child with no extends directive
// is used verbatim. A missing base disables inheritance silently; the stray
// extends directive is left behind for the strip stage. Inheritance is a
// single hop: the base's own extends directive, if any, is never processed.
func (e *Engine) resolveInheritance(text string, cfg Config) string {
	m := extendsPattern.FindStringSubmatch(text)
	if m == nil {
		return text
	}

	base, err := e.provider.Fetch(m[1])
	if err != nil {
		e.logger.Debug("Base template unavailable, inheritance disabled", "base", m[1], "error", err)
		return text
	}

	blocks := extractBlocks(text)

	// Every block region in the base is consumed here: replaced by the
	// child's body when overridden, erased otherwise (or kept when the
	// fallback flag is set). The base's extends/include/variable syntax
	// survives for the later stages.
	return blockPattern.ReplaceAllStringFunc(base, func(match string) string {
		sub := blockPattern.FindStringSubmatch(match)
		if body, ok := blocks[sub[1]]; ok {
			return body
		}
		if cfg.FallbackToBaseBlockBody {
			return sub[2]
		}
		return ""
	})
}
