package loader

import (
	"context"
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitSource describes one remote PLUGIN_PATH entry: a repository URL, an
// optional branch, and the local directory it should be materialized into
// before Load's directory walk begins.
type GitSource struct {
	URL         string
	Branch      string
	Destination string
}

// Materialize clones URL into Destination if nothing is there yet, or pulls
// the existing working copy up to date otherwise, returning Destination as
// a root Load can walk. Grounded on the teacher's repo plugin (PlainOpen,
// PlainCloneContext, NewBranchReferenceName), repurposed from "a step that
// manages a working copy" to "a loader helper that fetches a plugin source".
func Materialize(ctx context.Context, src GitSource) (string, error) {
	if _, err := os.Stat(src.Destination); err == nil {
		repo, err := git.PlainOpen(src.Destination)
		if err != nil {
			return "", fmt.Errorf("opening existing plugin source %s: %w", src.Destination, err)
		}
		wt, err := repo.Worktree()
		if err != nil {
			return "", fmt.Errorf("plugin source %s has no worktree: %w", src.Destination, err)
		}
		pullOpts := &git.PullOptions{RemoteName: "origin"}
		if src.Branch != "" {
			pullOpts.ReferenceName = plumbing.NewBranchReferenceName(src.Branch)
		}
		if err := wt.PullContext(ctx, pullOpts); err != nil && err != git.NoErrAlreadyUpToDate {
			return "", fmt.Errorf("updating plugin source %s: %w", src.Destination, err)
		}
		return src.Destination, nil
	}

	cloneOpts := &git.CloneOptions{URL: src.URL}
	if src.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(src.Branch)
		cloneOpts.SingleBranch = true
	}
	if _, err := git.PlainCloneContext(ctx, src.Destination, false, cloneOpts); err != nil {
		return "", fmt.Errorf("cloning plugin source %s: %w", src.URL, err)
	}
	return src.Destination, nil
}

// ResolveRoots splits a colon-separated PLUGIN_PATH (the same separator
// convention as COMMAND_PATH) into plain local directories and
// "git+<url>[@branch]=<local-dir>" remote entries, materializing the latter
// via Materialize before Load ever sees them.
func ResolveRoots(ctx context.Context, pluginPath string) ([]string, error) {
	var roots []string
	segments := strings.Split(pluginPath, ":")
	for i := 0; i < len(segments); i++ {
		entry := strings.TrimSpace(segments[i])
		if entry == "" {
			continue
		}
		if !strings.HasPrefix(entry, "git+") {
			roots = append(roots, entry)
			continue
		}
		// A remote URL contains colons of its own; rejoin segments until the
		// "=<local-dir>" part is reached.
		for !strings.Contains(entry, "=") && i+1 < len(segments) {
			i++
			entry += ":" + segments[i]
		}
		src, err := parseGitEntry(entry)
		if err != nil {
			return nil, err
		}
		dir, err := Materialize(ctx, src)
		if err != nil {
			return nil, err
		}
		roots = append(roots, dir)
	}
	return roots, nil
}

func parseGitEntry(entry string) (GitSource, error) {
	rest := strings.TrimPrefix(entry, "git+")
	parts := strings.SplitN(rest, "=", 2)
	if len(parts) != 2 || parts[1] == "" {
		return GitSource{}, fmt.Errorf("plugin path entry %q: expected git+<url>[@branch]=<local-dir>", entry)
	}
	urlAndBranch, dest := parts[0], parts[1]
	url := urlAndBranch
	branch := ""
	if idx := strings.LastIndex(urlAndBranch, "@"); idx >= 0 {
		url = urlAndBranch[:idx]
		branch = urlAndBranch[idx+1:]
	}
	return GitSource{URL: url, Branch: branch, Destination: dest}, nil
}
