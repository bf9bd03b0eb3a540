package commitmsg

import (
	"reflect"
	"testing"
)

func TestRender_Placeholders(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     map[string]string
		opts     RenderOptions
		want     string
	}{
		{
			name:     "simple substitution",
			template: "{{type}}: {{description}}",
			vars:     map[string]string{"type": "feat", "description": "add X"},
			want:     "feat: add X",
		},
		{
			name:     "missing variable becomes empty",
			template: "{{type}}: {{description}}",
			vars:     map[string]string{"type": "feat"},
			want:     "feat: ",
		},
		{
			name:     "missing variable preserved",
			template: "{{type}}: {{description}}",
			vars:     map[string]string{"type": "feat"},
			opts:     RenderOptions{PreservePlaceholders: true},
			want:     "feat: {{description}}",
		},
		{
			name:     "empty string is substituted, not preserved",
			template: "{{a}}|{{b}}",
			vars:     map[string]string{"a": "", "b": "x"},
			opts:     RenderOptions{PreservePlaceholders: true},
			want:     "|x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.template, tt.vars, tt.opts); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_Blocks(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     map[string]string
		want     string
	}{
		{
			name:     "truthy block renders",
			template: "a{{#x}}[{{x}}]{{/x}}b",
			vars:     map[string]string{"x": "1"},
			want:     "a[1]b",
		},
		{
			name:     "falsy block drops",
			template: "a{{#x}}[{{x}}]{{/x}}b",
			vars:     map[string]string{},
			want:     "ab",
		},
		{
			name:     "false string is falsy",
			template: "{{#flag}}yes{{/flag}}",
			vars:     map[string]string{"flag": "false"},
			want:     "",
		},
		{
			name:     "nested blocks resolve innermost first",
			template: "{{#a}}A{{#b}}B{{/b}}{{/a}}",
			vars:     map[string]string{"a": "1", "b": "1"},
			want:     "AB",
		},
		{
			name:     "nested inner falsy",
			template: "{{#a}}A{{#b}}B{{/b}}{{/a}}",
			vars:     map[string]string{"a": "1"},
			want:     "A",
		},
		{
			name:     "outer falsy drops inner entirely",
			template: "{{#a}}A{{#b}}B{{/b}}{{/a}}C",
			vars:     map[string]string{"b": "1"},
			want:     "C",
		},
		{
			name:     "unmatched close tag left alone",
			template: "a{{/x}}b",
			vars:     map[string]string{},
			want:     "a{{/x}}b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.template, tt.vars, RenderOptions{}); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequiredVariables(t *testing.T) {
	tmpl := "{{type}}{{#scope}}({{scope}}){{/scope}}: {{description}} {{type}}"
	got := RequiredVariables(tmpl)
	want := []string{"type", "description"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RequiredVariables() = %v, want %v", got, want)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	// Default template is present.
	if _, err := r.Get(DefaultTemplateName); err != nil {
		t.Fatalf("default template missing: %v", err)
	}

	// Unknown templates error.
	if _, err := r.Get("nope"); err == nil {
		t.Error("expected error for unknown template")
	}

	// Custom registration and rendering.
	r.Register("short", "{{type}}: {{description}}")
	out, err := r.Render("short", map[string]string{"type": "fix", "description": "bug"}, RenderOptions{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "fix: bug" {
		t.Errorf("Render() = %q", out)
	}

	// Validation reports missing required variables.
	missing, err := r.Validate("short", map[string]string{"type": "fix"})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !reflect.DeepEqual(missing, []string{"description"}) {
		t.Errorf("Validate() missing = %v, want [description]", missing)
	}
}
