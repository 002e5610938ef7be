package theme

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractBlocks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{
			name: "single block",
			text: `{% block title %}Hello{% endblock %}`,
			want: map[string]string{"title": "Hello"},
		},
		{
			name: "multiline body",
			text: "{% block body %}line one\nline two{% endblock %}",
			want: map[string]string{"body": "line one\nline two"},
		},
		{
			name: "named endblock",
			text: `{% block title %}Hello{% endblock title %}`,
			want: map[string]string{"title": "Hello"},
		},
		{
			name: "duplicate declaration last wins",
			text: `{% block x %}first{% endblock %}{% block x %}second{% endblock %}`,
			want: map[string]string{"x": "second"},
		},
		{
			name: "missing close contributes nothing",
			text: `{% block orphan %}dangling`,
			want: map[string]string{},
		},
		{
			name: "first close terminates the open",
			text: `{% block outer %}a{% endblock %}b{% endblock %}`,
			want: map[string]string{"outer": "a"},
		},
		{
			name: "irregular directive spacing",
			text: "{%block tight%}t{%endblock%}{%  block   loose  %}l{%  endblock  %}",
			want: map[string]string{"tight": "t", "loose": "l"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractBlocks(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("extractBlocks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
