// Package git reads commits, diffs and metadata from a local repository
// using go-git, so no git binary is required at runtime.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/varalys/diffgate/internal/commitmsg"
)

// validateRoot validates and normalizes a repository root path.
func validateRoot(root string) (string, error) {
	if strings.ContainsRune(root, 0) {
		return "", fmt.Errorf("invalid path: contains null byte")
	}
	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access path %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", root)
	}
	return abs, nil
}

// Open opens the repository containing root, walking up to find .git.
func Open(root string) (*gogit.Repository, error) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return nil, err
	}
	repo, err := gogit.PlainOpenWithOptions(validRoot, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening git repo: %w", err)
	}
	return repo, nil
}

// IsRepo reports whether root is inside a git work tree.
func IsRepo(root string) bool {
	_, err := Open(root)
	return err == nil
}

// RepoMetadata returns (repo, commit, branch) best-effort for the given root.
// Empty strings are returned on failure.
func RepoMetadata(root string) (string, string, string) {
	r, err := Open(root)
	if err != nil {
		return "", "", ""
	}
	repo := ""
	if remote, err := r.Remote("origin"); err == nil && len(remote.Config().URLs) > 0 {
		repo = shortRemote(remote.Config().URLs[0])
	}
	commit, branch := "", ""
	if head, err := r.Head(); err == nil {
		commit = head.Hash().String()
		if head.Name().IsBranch() {
			branch = head.Name().Short()
		} else {
			branch = "HEAD"
		}
	}
	return repo, commit, branch
}

// shortRemote trims a remote URL down to owner/name when possible.
func shortRemote(s string) string {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".git")
	if i := strings.Index(s, "github.com/"); i >= 0 {
		return s[i+len("github.com/"):]
	}
	if i := strings.LastIndex(s, ":"); i >= 0 && !strings.Contains(s, "://") {
		return s[i+1:]
	}
	return s
}

func resolveCommit(r *gogit.Repository, rev string) (*object.Commit, error) {
	if rev == "" {
		rev = "HEAD"
	}
	h, err := r.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", rev, err)
	}
	c, err := r.CommitObject(*h)
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", rev, err)
	}
	return c, nil
}

// CommitDiff returns the unified diff a single commit introduced relative to
// its first parent. A root commit is diffed against the empty tree.
func CommitDiff(root, rev string) (string, error) {
	r, err := Open(root)
	if err != nil {
		return "", err
	}
	c, err := resolveCommit(r, rev)
	if err != nil {
		return "", err
	}
	if c.NumParents() == 0 {
		tree, err := c.Tree()
		if err != nil {
			return "", fmt.Errorf("load tree: %w", err)
		}
		changes, err := object.DiffTree(nil, tree)
		if err != nil {
			return "", fmt.Errorf("diff tree: %w", err)
		}
		patch, err := changes.Patch()
		if err != nil {
			return "", fmt.Errorf("build patch: %w", err)
		}
		return patch.String(), nil
	}
	parent, err := c.Parent(0)
	if err != nil {
		return "", fmt.Errorf("load parent: %w", err)
	}
	patch, err := parent.Patch(c)
	if err != nil {
		return "", fmt.Errorf("build patch: %w", err)
	}
	return patch.String(), nil
}

// DiffAgainst returns the unified diff from base to HEAD.
func DiffAgainst(root, base string) (string, error) {
	r, err := Open(root)
	if err != nil {
		return "", err
	}
	from, err := resolveCommit(r, base)
	if err != nil {
		return "", err
	}
	to, err := resolveCommit(r, "HEAD")
	if err != nil {
		return "", err
	}
	patch, err := from.Patch(to)
	if err != nil {
		return "", fmt.Errorf("build patch: %w", err)
	}
	return patch.String(), nil
}

// Messages returns up to n commits reachable from HEAD, newest first.
// n <= 0 returns nothing.
func Messages(root string, n int) ([]commitmsg.Commit, error) {
	if n <= 0 {
		return nil, nil
	}
	r, err := Open(root)
	if err != nil {
		return nil, err
	}
	head, err := r.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}
	iter, err := r.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("walking log: %w", err)
	}
	defer iter.Close()

	out := make([]commitmsg.Commit, 0, n)
	err = iter.ForEach(func(c *object.Commit) error {
		out = append(out, commitmsg.Commit{Hash: c.Hash.String(), Message: c.Message})
		if len(out) >= n {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, err
	}
	return out, nil
}

// HeadMessage returns the full message of the HEAD commit.
func HeadMessage(root string) (string, error) {
	msgs, err := Messages(root, 1)
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 {
		return "", fmt.Errorf("repository has no commits")
	}
	return msgs[0].Message, nil
}
