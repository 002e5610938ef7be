package theme

// Config holds the behavior toggles for the rendering engine. The zero value
// reproduces the legacy engine exactly; each flag opts into the stricter
// behavior instead.
type Config struct {
	// PreferBoundOverDefault makes {{ ident | default(value="x") }} resolve
	// to the bound context value when ident is present. The legacy engine
	// collapses the placeholder to the literal unconditionally, even when
	// ident is bound.
	PreferBoundOverDefault bool `json:"prefer_bound_over_default"`

	// FallbackToBaseBlockBody keeps the base template's own block body when
	// the child does not override that block. The legacy engine erases
	// non-overridden blocks to an empty string.
	FallbackToBaseBlockBody bool `json:"fallback_to_base_block_body"`
}

// DefaultConfig returns a Config that reproduces the legacy engine behavior.
func DefaultConfig() *Config {
	return &Config{
		PreferBoundOverDefault:  false,
		FallbackToBaseBlockBody: false,
	}
}
