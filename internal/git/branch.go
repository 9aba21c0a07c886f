package git

import (
	"fmt"
	"strings"
)

// FetchAll runs `git fetch --all --quiet`.
func FetchAll(runner CommandRunner, repoPath string) error {
	if _, err := runner.Run(repoPath, "fetch", "--all", "--quiet"); err != nil {
		return fmt.Errorf("fetching remotes: %w", err)
	}
	return nil
}

// ListRemoteBranches runs `git branch -r` and returns the branch names
// published on remote, with the "<remote>/" prefix removed.
func ListRemoteBranches(runner CommandRunner, repoPath, remote string) ([]string, error) {
	out, err := runner.Run(repoPath, "branch", "-r")
	if err != nil {
		return nil, fmt.Errorf("listing remote branches: %w", err)
	}
	return parseRemoteBranches(out, remote), nil
}

func parseRemoteBranches(output, remote string) []string {
	prefix := remote + "/"
	var names []string

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimLeft(line, " \t*")
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "->") {
			continue
		}
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		name := strings.TrimPrefix(line, prefix)
		if name == "" || name == "HEAD" {
			continue
		}
		names = append(names, name)
	}

	return names
}

// HasLocalBranch reports whether refs/heads/<name> exists.
func HasLocalBranch(runner CommandRunner, repoPath, name string) bool {
	_, err := runner.Run(repoPath, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

// TrackRemoteBranches creates a local tracking branch for every branch on
// remote that has no local counterpart yet. Failures for individual branches
// are skipped; it returns the names that were created.
func TrackRemoteBranches(runner CommandRunner, repoPath, remote string) ([]string, error) {
	names, err := ListRemoteBranches(runner, repoPath, remote)
	if err != nil {
		return nil, err
	}

	var created []string
	for _, name := range names {
		if HasLocalBranch(runner, repoPath, name) {
			continue
		}
		if _, err := runner.Run(repoPath, "branch", "--track", name, remote+"/"+name); err != nil {
			continue
		}
		created = append(created, name)
	}
	return created, nil
}

// DiscoverBranches optionally fetches, makes sure every remote branch has a
// local tracking branch, and returns the remote branch names.
func DiscoverBranches(runner CommandRunner, repoPath, remote string, fetch bool) ([]string, error) {
	if fetch {
		if err := FetchAll(runner, repoPath); err != nil {
			return nil, err
		}
	}
	if _, err := TrackRemoteBranches(runner, repoPath, remote); err != nil {
		return nil, err
	}
	return ListRemoteBranches(runner, repoPath, remote)
}
