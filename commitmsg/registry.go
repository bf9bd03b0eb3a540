package commitmsg

import (
	"fmt"
	"sort"
)

// DefaultTemplateName is the name of the built-in conventional-commit
// template registered in every new Registry.
const DefaultTemplateName = "conventional"

// defaultTemplate renders "type(scope)!: description", an optional body
// paragraph, and Task/Phase/Tests trailers plus co-author lines when
// those variables are present.
const defaultTemplate = `{{type}}{{#scope}}({{scope}}){{/scope}}{{#breaking}}!{{/breaking}}: {{description}}{{#body}}

{{body}}{{/body}}{{#taskId}}

Task: {{taskId}}{{/taskId}}{{#phase}}
Phase: {{phase}}{{/phase}}{{#tests}}
Tests: {{tests}}{{/tests}}{{#coAuthors}}

{{coAuthors}}{{/coAuthors}}`

// Registry holds named commit message templates.
type Registry struct {
	templates map[string]string
}

// NewRegistry creates a registry with the default conventional-commit
// template pre-registered.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[string]string)}
	r.Register(DefaultTemplateName, defaultTemplate)
	return r
}

// Register adds or replaces a template under the given name.
func (r *Registry) Register(name, template string) {
	r.templates[name] = template
}

// Get returns the template registered under name.
func (r *Registry) Get(name string) (string, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("commit template not found: %s", name)
	}
	return tmpl, nil
}

// Names returns all registered template names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render renders the named template with the given variables.
func (r *Registry) Render(name string, vars map[string]string, opts RenderOptions) (string, error) {
	tmpl, err := r.Get(name)
	if err != nil {
		return "", err
	}
	return Render(tmpl, vars, opts), nil
}

// Validate reports which of the named template's required variables are
// missing from vars. An empty result means the template can render fully.
func (r *Registry) Validate(name string, vars map[string]string) ([]string, error) {
	tmpl, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, required := range RequiredVariables(tmpl) {
		if vars[required] == "" {
			missing = append(missing, required)
		}
	}
	return missing, nil
}
