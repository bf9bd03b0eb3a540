// Package pr creates pull requests on GitHub and GitLab for finished
// workflow branches.
//
// The workflow engine only needs a provider at finalization: after the
// branch is pushed it renders a Summary of the TDD cycles into a PR
// body and opens the request. FromRemote picks the right provider from
// the repository's remote URL.
package pr
