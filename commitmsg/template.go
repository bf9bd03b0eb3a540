package commitmsg

import (
	"regexp"
	"strings"
)

// RenderOptions configures template rendering.
type RenderOptions struct {
	// PreservePlaceholders leaves {{var}} placeholders intact when the
	// variable is absent, instead of substituting an empty string.
	PreservePlaceholders bool
}

var placeholderRe = regexp.MustCompile(`\{\{([A-Za-z0-9_.-]+)\}\}`)

// Render substitutes {{var}} placeholders from vars and processes
// {{#var}}...{{/var}} conditional blocks. A block's content is kept only
// when the variable is truthy (present and non-empty); blocks are
// resolved innermost-first so they nest.
func Render(template string, vars map[string]string, opts RenderOptions) string {
	out := renderBlocks(template, vars)

	return placeholderRe.ReplaceAllStringFunc(out, func(match string) string {
		name := match[2 : len(match)-2]
		if value, ok := vars[name]; ok {
			return value
		}
		if opts.PreservePlaceholders {
			return match
		}
		return ""
	})
}

// renderBlocks resolves {{#var}}...{{/var}} blocks. The first closing
// tag in the string always belongs to an innermost block, so resolving
// at each closing tag in order handles arbitrary nesting.
func renderBlocks(s string, vars map[string]string) string {
	searchFrom := 0
	for {
		rel := strings.Index(s[searchFrom:], "{{/")
		if rel == -1 {
			return s
		}
		closeStart := searchFrom + rel

		closeEnd := strings.Index(s[closeStart:], "}}")
		if closeEnd == -1 {
			return s
		}
		name := s[closeStart+3 : closeStart+closeEnd]
		closeLen := closeEnd + 2

		openTag := "{{#" + name + "}}"
		openStart := strings.LastIndex(s[:closeStart], openTag)
		if openStart == -1 {
			// Unmatched closing tag; leave it and keep scanning.
			searchFrom = closeStart + closeLen
			continue
		}

		body := s[openStart+len(openTag) : closeStart]
		var replacement string
		if truthy(vars[name]) {
			replacement = body
		}

		s = s[:openStart] + replacement + s[closeStart+closeLen:]
		searchFrom = 0
	}
}

// truthy reports whether a variable value enables a conditional block.
func truthy(value string) bool {
	return value != "" && value != "false"
}

// RequiredVariables extracts the distinct variable names a template
// cannot render without, in order of first appearance. Placeholders
// inside {{#var}} blocks are optional by construction (the block simply
// drops out) and are not reported.
func RequiredVariables(template string) []string {
	stripped := stripBlocks(template)

	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(stripped, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// stripBlocks removes conditional blocks and their content, innermost
// first, leaving only the unconditional parts of the template.
func stripBlocks(s string) string {
	return renderBlocks(s, nil)
}
