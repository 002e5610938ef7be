package theme

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Context is the flat key to string value mapping supplied by the caller for
// a single render. Keys are dotted strings (e.g. "site.name"). The engine
// performs exact string matching against them only; there is no nesting and
// no type coercion beyond the string representation.
type Context map[string]string

// ParseSiteData parses a YAML document into a Context. Nested mappings are
// flattened into dotted keys, so
//
//	site:
//	  name: RustPress
//
// becomes {"site.name": "RustPress"}. Scalars take their plain string form.
// Sequences are dropped: the engine has no loop syntax that could consume
// them.
func ParseSiteData(data []byte) (Context, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse site data: %w", err)
	}

	ctx := Context{}
	flattenInto(ctx, "", raw)
	return ctx, nil
}

// LoadSiteData reads and parses a YAML site data file from disk.
func LoadSiteData(path string) (Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site data file: %w", err)
	}
	return ParseSiteData(data)
}

func flattenInto(ctx Context, prefix string, values map[string]any) {
	for key, value := range values {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch typed := value.(type) {
		case map[string]any:
			flattenInto(ctx, full, typed)
		case []any:
			// Unconsumable, see above.
		case nil:
			ctx[full] = ""
		default:
			ctx[full] = fmt.Sprintf("%v", typed)
		}
	}
}
