package store

import (
	"encoding/base64"
	"fmt"
)

// EncodeProjectPath converts an absolute project path into a filesystem
// safe storage key. The encoding is bijective, so keys decode back to
// the exact original path on any platform.
func EncodeProjectPath(absPath string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(absPath))
}

// DecodeProjectPath recovers the project path from a storage key.
func DecodeProjectPath(key string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(key)
	if err != nil {
		return "", fmt.Errorf("decode project key: %w", err)
	}
	return string(raw), nil
}
