// Package provenance finds the git history of an input file.
package provenance

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Info locates a file inside a git work tree.
type Info struct {
	// Root is the work tree root.
	Root string
	// Path is the file path relative to Root, slash-separated.
	Path string
	// Head is the commit HEAD points to, empty for a repository without
	// commits.
	Head string
	// Commit is the last commit that touched Path, empty if the file is not
	// tracked.
	Commit string
	Author string
	When   time.Time
}

// Lookup returns provenance for path, or nil when path is not inside a git
// work tree.
func Lookup(path string) (*Info, error) {
	abs, err := resolve(path)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no work tree to hold the file.
		return nil, nil
	}
	root, err := resolve(wt.Filesystem.Root())
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return nil, fmt.Errorf("relative path: %w", err)
	}
	info := &Info{Root: root, Path: filepath.ToSlash(rel)}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return info, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	info.Head = head.Hash().String()

	iter, err := repo.Log(&git.LogOptions{From: head.Hash(), FileName: &info.Path})
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}
	defer iter.Close()
	c, err := iter.Next()
	if errors.Is(err, io.EOF) {
		return info, nil
	}
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}
	info.Commit = c.Hash.String()
	info.Author = c.Author.Name
	info.When = c.Author.When
	return info, nil
}

func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
