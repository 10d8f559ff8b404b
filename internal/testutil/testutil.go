// Package testutil provides common test helpers for the pam-recent project.
package testutil

import (
	"context"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// RecentDirs is a fake pair of /proc/net/xt_recent and /proc/net/ipt_recent.
type RecentDirs struct {
	New    string
	Legacy string
}

// TempRecentDirs creates empty new and legacy list directories under a
// temporary root. Lists are added with AddRecentList.
func TempRecentDirs(t *testing.T) RecentDirs {
	t.Helper()

	root := t.TempDir()
	dirs := RecentDirs{
		New:    filepath.Join(root, "xt_recent"),
		Legacy: filepath.Join(root, "ipt_recent"),
	}
	for _, d := range []string{dirs.New, dirs.Legacy} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("TempRecentDirs: mkdir failed: %v", err)
		}
	}
	return dirs
}

// AddRecentList creates an empty list entry in dir and returns its path.
func AddRecentList(t *testing.T, dir, list string) string {
	t.Helper()

	path := filepath.Join(dir, list)
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("AddRecentList: write failed: %v", err)
	}
	return path
}

// ReadFile returns the file content, or "" when it does not exist.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ""
	}
	if err != nil {
		t.Fatalf("ReadFile: read failed: %v", err)
	}
	return string(data)
}

// TempConfigFile creates a temporary pam_recent.toml with the given content
// and returns its path. The file is automatically cleaned up.
func TempConfigFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "pam_recent.toml")

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("TempConfigFile: write failed: %v", err)
	}

	return path
}

// ConfigForDirs returns a config file pointing at dirs with syslog off, so
// tests never touch the host's /proc or syslog.
func ConfigForDirs(t *testing.T, dirs RecentDirs) string {
	t.Helper()

	content := fmt.Sprintf(`default_list = "DEFAULT"
proc_dir = %q
legacy_proc_dir = %q

[resolver]
backend = "system"
timeout = "2s"

[log]
level = "debug"
syslog = false
`, dirs.New, dirs.Legacy)
	return TempConfigFile(t, content)
}

// FakeResolver answers lookups from a fixed table and records every query.
type FakeResolver struct {
	mu      sync.Mutex
	answers map[string][]netip.Addr
	Queries []string
}

// NewFakeResolver creates a FakeResolver with no known hosts.
func NewFakeResolver() *FakeResolver {
	return &FakeResolver{answers: make(map[string][]netip.Addr)}
}

// Register makes host resolve to addrs.
func (r *FakeResolver) Register(host string, addrs ...string) *FakeResolver {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range addrs {
		r.answers[host] = append(r.answers[host], netip.MustParseAddr(a))
	}
	return r
}

// LookupIPv4 returns the registered answers, or an error for unknown hosts.
func (r *FakeResolver) LookupIPv4(_ context.Context, host string) ([]netip.Addr, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Queries = append(r.Queries, host)
	if a, ok := r.answers[host]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("lookup %s: no such host", host)
}
