package gitscope

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when no git repository contains the path.
var ErrNotRepository = errors.New("not a git repository")

// Repository reads change information from a local git working tree.
type Repository struct {
	root string
	repo *gogit.Repository
}

// CommitInfo identifies the HEAD commit.
type CommitInfo struct {
	SHA     string
	Short   string
	Message string
}

// Open finds the repository containing path, searching parent directories.
func Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	return &Repository{
		root: worktree.Filesystem.Root(),
		repo: repo,
	}, nil
}

// Root returns the working tree root directory.
func (r *Repository) Root() string {
	return r.root
}

// Head returns the HEAD commit.
func (r *Repository) Head() (*CommitInfo, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}

	sha := commit.Hash.String()
	return &CommitInfo{
		SHA:     sha,
		Short:   sha[:7],
		Message: strings.TrimSpace(commit.Message),
	}, nil
}

// ChangedFiles returns the files with uncommitted changes (staged,
// unstaged or untracked). When since names a revision, files changed
// between it and HEAD are included too. Deleted files are left out and
// only files with one of extensions are returned, as absolute paths in
// sorted order.
func (r *Repository) ChangedFiles(since string, extensions []string) ([]string, error) {
	names := make(map[string]bool)

	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	for name, st := range status {
		if st.Staging == gogit.Unmodified && st.Worktree == gogit.Unmodified {
			continue
		}
		names[name] = true
	}

	if since != "" {
		committed, err := r.changedSince(since)
		if err != nil {
			return nil, err
		}
		for _, name := range committed {
			names[name] = true
		}
	}

	var files []string
	for name := range names {
		if !hasExtension(name, extensions) {
			continue
		}
		path := filepath.Join(r.root, filepath.FromSlash(name))
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		files = append(files, path)
	}
	slices.Sort(files)
	return files, nil
}

// changedSince diffs the tree of revision against HEAD's tree.
func (r *Repository) changedSince(revision string) ([]string, error) {
	fromHash, err := r.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", revision, err)
	}
	fromCommit, err := r.repo.CommitObject(*fromHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get from commit: %w", err)
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	toCommit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get to commit: %w", err)
	}

	fromTree, err := fromCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get from tree: %w", err)
	}
	toTree, err := toCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get to tree: %w", err)
	}

	changes, err := fromTree.Diff(toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	var files []string
	for _, change := range changes {
		// Deleted files have no "to" side.
		if change.To.Name != "" {
			files = append(files, change.To.Name)
		}
	}
	return files, nil
}

func hasExtension(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, want := range extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
