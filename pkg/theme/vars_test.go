package theme

import "testing"

func TestSubstituteVariables(t *testing.T) {
	ctx := Context{"site.name": "Acme", "present": "Bound"}
	legacy := *DefaultConfig()

	tests := []struct {
		name string
		text string
		cfg  Config
		want string
	}{
		{
			name: "spaced form",
			text: "<h1>{{ site.name }}</h1>",
			cfg:  legacy,
			want: "<h1>Acme</h1>",
		},
		{
			name: "unspaced form",
			text: "<h1>{{site.name}}</h1>",
			cfg:  legacy,
			want: "<h1>Acme</h1>",
		},
		{
			name: "irregular spacing does not substitute",
			text: "<h1>{{  site.name  }}</h1>",
			cfg:  legacy,
			want: "<h1>{{  site.name  }}</h1>",
		},
		{
			name: "default for a missing identifier",
			text: `{{ missing | default(value="Fallback") }}`,
			cfg:  legacy,
			want: "Fallback",
		},
		{
			name: "default wins over a bound identifier",
			text: `{{ present | default(value="Fallback") }}`,
			cfg:  legacy,
			want: "Fallback",
		},
		{
			name: "bound identifier preferred with the flag set",
			text: `{{ present | default(value="Fallback") }}`,
			cfg:  Config{PreferBoundOverDefault: true},
			want: "Bound",
		},
		{
			name: "flag still falls back when unbound",
			text: `{{ missing | default(value="Fallback") }}`,
			cfg:  Config{PreferBoundOverDefault: true},
			want: "Fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := substituteVariables(tt.text, ctx, tt.cfg); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
