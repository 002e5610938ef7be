package theme

import "regexp"

// blockPattern matches one {% block name %} ... {% endblock %} pair. The
// body spans newlines and the match is non-greedy, so the first close
// directive terminates the innermost preceding open. The close may
// optionally repeat the block name.
var blockPattern = regexp.MustCompile(`(?s)\{%\s*block\s+(\w+)\s*%\}(.*?)\{%\s*endblock(?:\s+\w+)?\s*%\}`)

// extractBlocks scans child template text and builds the block map. A block
// name declared more than once resolves last-wins; a block missing its close
// directive yields no match and contributes nothing, which callers treat the
// same as "block not declared".
func extractBlocks(text string) map[string]string {
	blocks := make(map[string]string)
	for _, m := range blockPattern.FindAllStringSubmatch(text, -1) {
		blocks[m[1]] = m[2]
	}
	return blocks
}
