package commitmsg

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/tddflow/tdd"
)

// Type represents the type of change in a conventional commit.
type Type string

const (
	TypeFeat     Type = "feat"
	TypeFix      Type = "fix"
	TypeDocs     Type = "docs"
	TypeStyle    Type = "style"
	TypeRefactor Type = "refactor"
	TypePerf     Type = "perf"
	TypeTest     Type = "test"
	TypeBuild    Type = "build"
	TypeCI       Type = "ci"
	TypeChore    Type = "chore"
	TypeRevert   Type = "revert"
)

// Message describes a commit to generate. Zero-valued optional fields
// drop out of the rendered message via the template's conditional blocks.
type Message struct {
	Type        Type            // Required: type of change (feat, fix, etc.)
	Scope       string          // Optional: area of codebase affected
	Description string          // Required: short description (imperative mood)
	Body        string          // Optional: detailed explanation
	Breaking    bool            // Whether this is a breaking change
	TaskID      string          // Task the commit belongs to
	Phase       tdd.Phase       // TDD phase the commit concludes
	Tests       *tdd.TestResult // Test evidence backing the commit
	CoAuthors   []string        // Co-author name/email lines
}

// Vars flattens the message into template variables.
func (m Message) Vars() map[string]string {
	vars := map[string]string{
		"type":        string(m.Type),
		"scope":       m.Scope,
		"description": m.Description,
		"body":        m.Body,
		"taskId":      m.TaskID,
		"phase":       string(m.Phase),
	}
	if m.Breaking {
		vars["breaking"] = "true"
	}
	if m.Tests != nil {
		vars["tests"] = m.Tests.Summary()
	}
	if len(m.CoAuthors) > 0 {
		lines := make([]string, len(m.CoAuthors))
		for i, author := range m.CoAuthors {
			lines[i] = "Co-authored-by: " + author
		}
		vars["coAuthors"] = strings.Join(lines, "\n")
	}
	return vars
}

// Validate checks that the message carries the required fields.
func (m Message) Validate() error {
	if m.Type == "" {
		return fmt.Errorf("commit type is required")
	}
	if m.Description == "" {
		return fmt.Errorf("commit description is required")
	}
	if len(m.Description) > 100 {
		return fmt.Errorf("commit description too long (max 100 characters)")
	}
	return nil
}

// Generator renders Messages through a named template in a Registry.
type Generator struct {
	registry *Registry
	template string
}

// NewGenerator creates a generator using the given registry and template
// name. An empty name selects the default conventional template.
func NewGenerator(registry *Registry, templateName string) *Generator {
	if registry == nil {
		registry = NewRegistry()
	}
	if templateName == "" {
		templateName = DefaultTemplateName
	}
	return &Generator{registry: registry, template: templateName}
}

// Generate validates the message and renders it through the configured
// template.
func (g *Generator) Generate(m Message) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	return g.registry.Render(g.template, m.Vars(), RenderOptions{})
}
