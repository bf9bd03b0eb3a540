package pr

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/xanzy/go-gitlab"
)

// GitLabProvider implements Provider for GitLab repositories.
type GitLabProvider struct {
	client    *gitlab.Client
	projectID string // Numeric ID or "namespace/project"
}

// NewGitLabProvider creates a GitLab provider. baseURL is the instance
// URL (empty for gitlab.com); projectID can be a numeric ID or the
// "namespace/project" path.
func NewGitLabProvider(token, baseURL, projectID string) (*GitLabProvider, error) {
	if token == "" {
		return nil, fmt.Errorf("GitLab token is required")
	}
	if projectID == "" {
		return nil, fmt.Errorf("project ID is required")
	}

	var client *gitlab.Client
	var err error

	if baseURL != "" {
		client, err = gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
	} else {
		client, err = gitlab.NewClient(token)
	}
	if err != nil {
		return nil, fmt.Errorf("create GitLab client: %w", err)
	}

	return &GitLabProvider{client: client, projectID: projectID}, nil
}

// NewGitLabProviderFromURL creates a GitLab provider from a remote URL,
// handling self-hosted instances.
func NewGitLabProviderFromURL(token, remoteURL string) (*GitLabProvider, error) {
	owner, repo, err := ParseRepoFromURL(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}

	var baseURL string
	if !strings.Contains(remoteURL, "gitlab.com") {
		trimmed := strings.TrimPrefix(remoteURL, "https://")
		trimmed = strings.TrimPrefix(trimmed, "http://")
		parts := strings.Split(trimmed, "/")
		if len(parts) > 0 {
			baseURL = "https://" + parts[0]
		}
	}

	return NewGitLabProvider(token, baseURL, owner+"/"+repo)
}

// CreatePR opens a new merge request.
func (p *GitLabProvider) CreatePR(ctx context.Context, opts Options) (*PullRequest, error) {
	targetBranch := opts.Base
	if targetBranch == "" {
		targetBranch = "main"
	}

	mrOpts := &gitlab.CreateMergeRequestOptions{
		Title:        gitlab.Ptr(opts.Title),
		Description:  gitlab.Ptr(opts.Body),
		SourceBranch: gitlab.Ptr(opts.Head),
		TargetBranch: gitlab.Ptr(targetBranch),
	}
	if opts.Draft {
		mrOpts.Title = gitlab.Ptr("Draft: " + opts.Title)
	}
	if len(opts.Labels) > 0 {
		mrOpts.Labels = gitlab.Ptr(gitlab.LabelOptions(opts.Labels))
	}

	mr, resp, err := p.client.MergeRequests.CreateMergeRequest(p.projectID, mrOpts, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusConflict {
			return nil, ErrExists
		}
		return nil, fmt.Errorf("create MR: %w", err)
	}

	return fromGitLab(mr), nil
}

// GetPR retrieves a merge request by IID.
func (p *GitLabProvider) GetPR(ctx context.Context, id int) (*PullRequest, error) {
	mr, resp, err := p.client.MergeRequests.GetMergeRequest(p.projectID, id, nil, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get MR: %w", err)
	}
	return fromGitLab(mr), nil
}

// AddComment posts a note on a merge request.
func (p *GitLabProvider) AddComment(ctx context.Context, id int, body string) error {
	_, _, err := p.client.Notes.CreateMergeRequestNote(p.projectID, id,
		&gitlab.CreateMergeRequestNoteOptions{Body: gitlab.Ptr(body)}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}

// FindByBranch returns the open MR whose source branch matches, or nil.
func (p *GitLabProvider) FindByBranch(ctx context.Context, head string) (*PullRequest, error) {
	opts := &gitlab.ListProjectMergeRequestsOptions{
		State:        gitlab.Ptr("opened"),
		SourceBranch: gitlab.Ptr(head),
		ListOptions:  gitlab.ListOptions{PerPage: 1},
	}

	mrs, _, err := p.client.MergeRequests.ListProjectMergeRequests(p.projectID, opts, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list MRs: %w", err)
	}
	if len(mrs) == 0 {
		return nil, nil
	}
	return fromGitLab(mrs[0]), nil
}

func fromGitLab(mr *gitlab.MergeRequest) *PullRequest {
	result := &PullRequest{
		ID:    mr.IID,
		URL:   mr.WebURL,
		Title: mr.Title,
		Body:  mr.Description,
		Head:  mr.SourceBranch,
		Base:  mr.TargetBranch,
	}

	result.Draft = strings.HasPrefix(mr.Title, "Draft:") ||
		strings.HasPrefix(mr.Title, "WIP:")

	switch mr.State {
	case "opened":
		result.State = StateOpen
	case "merged":
		result.State = StateMerged
	case "closed":
		result.State = StateClosed
	}

	if mr.CreatedAt != nil {
		result.CreatedAt = *mr.CreatedAt
	}
	if mr.MergedAt != nil {
		result.MergedAt = mr.MergedAt
	}

	return result
}
