// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"fmt"
	"time"

	"track/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// GatewayCall records one invocation of a FakeGateway method.
type GatewayCall struct {
	Op   string
	Args []string
}

// FakeGateway is a scripted test double for domain.Gateway. By default
// every path is a repository, no branches exist, working copies are
// clean and mutations succeed; individual behaviors are overridden via
// the exported maps and error fields.
// Fields are ordered to minimize memory padding.
type FakeGateway struct {
	Repos          map[string]bool   // path -> is a repository (missing = true)
	Branches       map[string]bool   // "repo\x00branch" -> exists
	Dirty          map[string]bool   // path -> has pending changes
	Heads          map[string]string // repo -> current branch
	Hashes         map[string]string // "repo\x00ref" -> hash
	Calls          []GatewayCall
	CreateWTErr    error
	RemoveWTErr    error
	MergeErr       error
	CheckoutErr    error
	CreateBranchEr error
}

// NewFakeGateway creates a FakeGateway with initialized maps.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		Repos:    make(map[string]bool),
		Branches: make(map[string]bool),
		Dirty:    make(map[string]bool),
		Heads:    make(map[string]string),
		Hashes:   make(map[string]string),
	}
}

// Ensure FakeGateway implements domain.Gateway.
var _ domain.Gateway = (*FakeGateway)(nil)

func key(repo, name string) string {
	return repo + "\x00" + name
}

func (f *FakeGateway) record(op string, args ...string) {
	f.Calls = append(f.Calls, GatewayCall{Op: op, Args: args})
}

// CallOps returns the operation names of all recorded calls, in order.
func (f *FakeGateway) CallOps() []string {
	ops := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		ops[i] = c.Op
	}
	return ops
}

// IsRepository reports the scripted answer for path, defaulting to true.
func (f *FakeGateway) IsRepository(path string) bool {
	f.record("IsRepository", path)
	if v, ok := f.Repos[path]; ok {
		return v
	}
	return true
}

// BranchExists reports the scripted answer, defaulting to false.
func (f *FakeGateway) BranchExists(repo, branch string) (bool, error) {
	f.record("BranchExists", repo, branch)
	return f.Branches[key(repo, branch)], nil
}

// CreateWorktree records the branch as existing on success.
func (f *FakeGateway) CreateWorktree(repo, path, branch string) error {
	f.record("CreateWorktree", repo, path, branch)
	if f.CreateWTErr != nil {
		return f.CreateWTErr
	}
	if f.Branches[key(repo, branch)] {
		return domain.ErrBranchExists
	}
	f.Branches[key(repo, branch)] = true
	return nil
}

// RemoveWorktree returns the scripted error, if any.
func (f *FakeGateway) RemoveWorktree(repo, path string) error {
	f.record("RemoveWorktree", repo, path)
	return f.RemoveWTErr
}

// HasPendingChanges reports the scripted answer, defaulting to clean.
func (f *FakeGateway) HasPendingChanges(path string) (bool, error) {
	f.record("HasPendingChanges", path)
	return f.Dirty[path], nil
}

// Merge returns the scripted error, if any.
func (f *FakeGateway) Merge(targetPath, branch string) error {
	f.record("Merge", targetPath, branch)
	return f.MergeErr
}

// Checkout updates the recorded HEAD on success.
func (f *FakeGateway) Checkout(repo, branch string) error {
	f.record("Checkout", repo, branch)
	if f.CheckoutErr != nil {
		return f.CheckoutErr
	}
	f.Heads[repo] = branch
	return nil
}

// CreateBranch records the branch as existing on success.
func (f *FakeGateway) CreateBranch(repo, branch, base string) error {
	f.record("CreateBranch", repo, branch, base)
	if f.CreateBranchEr != nil {
		return f.CreateBranchEr
	}
	f.Branches[key(repo, branch)] = true
	return nil
}

// CurrentBranch returns the recorded HEAD, defaulting to "main".
func (f *FakeGateway) CurrentBranch(repo string) (string, error) {
	f.record("CurrentBranch", repo)
	if h, ok := f.Heads[repo]; ok {
		return h, nil
	}
	return "main", nil
}

// RevParse returns the scripted hash or an error for unknown refs.
func (f *FakeGateway) RevParse(repo, ref string) (string, error) {
	f.record("RevParse", repo, ref)
	if h, ok := f.Hashes[key(repo, ref)]; ok {
		return h, nil
	}
	return "", &domain.GitError{Op: "rev-parse", Diagnostic: fmt.Sprintf("unknown revision %q", ref)}
}
