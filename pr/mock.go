package pr

import "context"

// MockProvider is a Provider for tests. Unset funcs return benign
// defaults.
type MockProvider struct {
	CreatePRFunc     func(ctx context.Context, opts Options) (*PullRequest, error)
	GetPRFunc        func(ctx context.Context, id int) (*PullRequest, error)
	AddCommentFunc   func(ctx context.Context, id int, body string) error
	FindByBranchFunc func(ctx context.Context, head string) (*PullRequest, error)

	Created []Options // Every Options passed to CreatePR
}

// CreatePR implements Provider.
func (m *MockProvider) CreatePR(ctx context.Context, opts Options) (*PullRequest, error) {
	m.Created = append(m.Created, opts)
	if m.CreatePRFunc != nil {
		return m.CreatePRFunc(ctx, opts)
	}
	return &PullRequest{ID: 1, URL: "https://example.com/pr/1", State: StateOpen, Head: opts.Head, Base: opts.Base}, nil
}

// GetPR implements Provider.
func (m *MockProvider) GetPR(ctx context.Context, id int) (*PullRequest, error) {
	if m.GetPRFunc != nil {
		return m.GetPRFunc(ctx, id)
	}
	return &PullRequest{ID: id, State: StateOpen}, nil
}

// AddComment implements Provider.
func (m *MockProvider) AddComment(ctx context.Context, id int, body string) error {
	if m.AddCommentFunc != nil {
		return m.AddCommentFunc(ctx, id, body)
	}
	return nil
}

// FindByBranch implements Provider.
func (m *MockProvider) FindByBranch(ctx context.Context, head string) (*PullRequest, error) {
	if m.FindByBranchFunc != nil {
		return m.FindByBranchFunc(ctx, head)
	}
	return nil, nil
}
