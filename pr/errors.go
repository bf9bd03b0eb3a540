package pr

import "errors"

// Provider errors.
var (
	// ErrNoProvider indicates no pull request provider is configured.
	ErrNoProvider = errors.New("no pull request provider configured")

	// ErrUnknownProvider indicates the git remote uses an unknown host.
	ErrUnknownProvider = errors.New("unknown git provider")

	// ErrExists indicates a PR already exists for the branch.
	ErrExists = errors.New("pull request already exists for this branch")

	// ErrNotFound indicates the PR does not exist.
	ErrNotFound = errors.New("pull request not found")

	// ErrNoChanges indicates there are no commits between branches.
	ErrNoChanges = errors.New("no changes between branches")
)
