package pr

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// GitHubProvider implements Provider for GitHub repositories.
type GitHubProvider struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHubProvider creates a GitHub provider for owner/repo using a
// personal access token.
func NewGitHubProvider(token, owner, repo string) (*GitHubProvider, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &GitHubProvider{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}, nil
}

// NewGitHubProviderFromURL creates a GitHub provider from a remote URL.
func NewGitHubProviderFromURL(token, remoteURL string) (*GitHubProvider, error) {
	owner, repo, err := ParseRepoFromURL(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}
	return NewGitHubProvider(token, owner, repo)
}

// CreatePR opens a new pull request.
func (p *GitHubProvider) CreatePR(ctx context.Context, opts Options) (*PullRequest, error) {
	base := opts.Base
	if base == "" {
		base = "main"
	}

	newPR := &github.NewPullRequest{
		Title: github.String(opts.Title),
		Body:  github.String(opts.Body),
		Base:  github.String(base),
		Head:  github.String(opts.Head),
		Draft: github.Bool(opts.Draft),
	}

	created, resp, err := p.client.PullRequests.Create(ctx, p.owner, p.repo, newPR)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
			if strings.Contains(err.Error(), "A pull request already exists") {
				return nil, ErrExists
			}
			if strings.Contains(err.Error(), "No commits between") {
				return nil, ErrNoChanges
			}
		}
		return nil, fmt.Errorf("create PR: %w", err)
	}

	if len(opts.Labels) > 0 {
		_, _, err = p.client.Issues.AddLabelsToIssue(ctx, p.owner, p.repo, created.GetNumber(), opts.Labels)
		if err != nil {
			// The PR exists; label failures are not fatal.
			slog.Warn("failed to add labels to PR", "error", err, "pr", created.GetNumber())
		}
	}

	return fromGitHub(created), nil
}

// GetPR retrieves a pull request by number.
func (p *GitHubProvider) GetPR(ctx context.Context, id int) (*PullRequest, error) {
	res, resp, err := p.client.PullRequests.Get(ctx, p.owner, p.repo, id)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get PR: %w", err)
	}
	return fromGitHub(res), nil
}

// AddComment posts a comment on a pull request.
func (p *GitHubProvider) AddComment(ctx context.Context, id int, body string) error {
	_, _, err := p.client.Issues.CreateComment(ctx, p.owner, p.repo, id,
		&github.IssueComment{Body: github.String(body)})
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}

// FindByBranch returns the open PR whose head matches, or nil.
func (p *GitHubProvider) FindByBranch(ctx context.Context, head string) (*PullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:       "open",
		Head:        p.owner + ":" + head,
		ListOptions: github.ListOptions{PerPage: 1},
	}

	prs, _, err := p.client.PullRequests.List(ctx, p.owner, p.repo, opts)
	if err != nil {
		return nil, fmt.Errorf("list PRs: %w", err)
	}
	if len(prs) == 0 {
		return nil, nil
	}
	return fromGitHub(prs[0]), nil
}

func fromGitHub(ghpr *github.PullRequest) *PullRequest {
	result := &PullRequest{
		ID:    ghpr.GetNumber(),
		URL:   ghpr.GetHTMLURL(),
		Title: ghpr.GetTitle(),
		Body:  ghpr.GetBody(),
		Draft: ghpr.GetDraft(),
	}

	switch ghpr.GetState() {
	case "open":
		result.State = StateOpen
	case "closed":
		if ghpr.GetMerged() {
			result.State = StateMerged
		} else {
			result.State = StateClosed
		}
	}

	if ghpr.Head != nil {
		result.Head = ghpr.Head.GetRef()
	}
	if ghpr.Base != nil {
		result.Base = ghpr.Base.GetRef()
	}
	result.CreatedAt = ghpr.GetCreatedAt().Time
	if ghpr.MergedAt != nil {
		t := ghpr.MergedAt.Time
		result.MergedAt = &t
	}

	return result
}
