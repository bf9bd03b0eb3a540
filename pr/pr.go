package pr

import (
	"context"
	"time"
)

// State represents the state of a pull request.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
	StateMerged State = "merged"
)

// Provider creates and inspects pull requests on a hosting platform.
// Implementations exist for GitHub and GitLab; the workflow engine uses
// a provider only during finalization, after the branch is pushed.
type Provider interface {
	// CreatePR opens a new pull request.
	CreatePR(ctx context.Context, opts Options) (*PullRequest, error)

	// GetPR retrieves a pull request by number.
	GetPR(ctx context.Context, id int) (*PullRequest, error)

	// AddComment posts a comment on a pull request.
	AddComment(ctx context.Context, id int, body string) error

	// FindByBranch returns the open pull request whose source branch
	// matches, or nil if none exists.
	FindByBranch(ctx context.Context, head string) (*PullRequest, error)
}

// Options configures pull request creation.
type Options struct {
	Title  string   // PR title (required)
	Body   string   // PR description (markdown)
	Base   string   // Target branch (default: "main")
	Head   string   // Source branch
	Labels []string // Labels to apply
	Draft  bool     // Create as draft
}

// PullRequest is a created or fetched pull request.
type PullRequest struct {
	ID        int        // PR number
	URL       string     // Web URL
	Title     string     // PR title
	Body      string     // PR description
	State     State      // Current state
	Draft     bool       // Whether it is a draft
	Head      string     // Source branch
	Base      string     // Target branch
	CreatedAt time.Time  // Creation time
	MergedAt  *time.Time // Merge time (nil if not merged)
}
