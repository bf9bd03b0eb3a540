// Package commitmsg generates commit messages from named templates.
//
// Templates use {{var}} placeholders and {{#var}}...{{/var}} conditional
// blocks; blocks render their content only when the variable is truthy
// and are processed innermost-first so they nest. Absent placeholders
// substitute an empty string unless placeholder preservation is enabled.
//
// The default "conventional" template renders a conventional-commit
// subject line (type(scope)!: description), a body paragraph, and
// Task/Phase/Tests metadata trailers when those variables are present.
package commitmsg
