package pr

import (
	"errors"
	"testing"
)

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://github.com/acme/widgets.git", "github", false},
		{"git@github.com:acme/widgets.git", "github", false},
		{"https://gitlab.com/acme/widgets.git", "gitlab", false},
		{"https://gitlab.internal.acme.io/team/widgets.git", "gitlab", false},
		{"https://example.com/acme/widgets.git", "", true},
	}

	for _, tt := range tests {
		got, err := DetectProvider(tt.url)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownProvider) {
				t.Errorf("DetectProvider(%q) error = %v, want ErrUnknownProvider", tt.url, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("DetectProvider(%q) = %q, %v; want %q", tt.url, got, err, tt.want)
		}
	}
}

func TestParseRepoFromURL(t *testing.T) {
	tests := []struct {
		url         string
		owner, repo string
		wantErr     bool
	}{
		{"https://github.com/acme/widgets.git", "acme", "widgets", false},
		{"https://github.com/acme/widgets", "acme", "widgets", false},
		{"git@github.com:acme/widgets.git", "acme", "widgets", false},
		{"git@gitlab.com:acme/widgets", "acme", "widgets", false},
		{"not-a-url", "", "", true},
		{"git@github.com:too:many:colons", "", "", true},
	}

	for _, tt := range tests {
		owner, repo, err := ParseRepoFromURL(tt.url)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRepoFromURL(%q) expected error", tt.url)
			}
			continue
		}
		if err != nil || owner != tt.owner || repo != tt.repo {
			t.Errorf("ParseRepoFromURL(%q) = %q, %q, %v; want %q, %q", tt.url, owner, repo, err, tt.owner, tt.repo)
		}
	}
}
