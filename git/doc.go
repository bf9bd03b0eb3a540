// Package git wraps git subprocess operations for the workflow engine:
// branch creation and checkout, staging, commits, status, and pushes.
//
// Commands run through a CommandRunner; the default ExecRunner shells
// out to git, and MockRunner lets tests drive workflows without
// touching a repository. Command failures surface as *Error with the
// captured stderr; they are never retried.
package git
