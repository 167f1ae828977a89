// Package git provides the repository operations pontos needs for a
// release: staging and committing the bumped files, creating the release
// tag, and pushing branch and tag to the remote. It uses the go-git library
// throughout, so no git CLI installation is required.
package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// DefaultPushTimeout bounds push operations so a hanging remote cannot
// stall a release indefinitely.
const DefaultPushTimeout = 60 * time.Second

// fallbackSignature is used when the repository has no user configured.
var fallbackSignature = object.Signature{
	Name:  "pontos",
	Email: "pontos@localhost",
}

// debugLogger is a function that logs debug messages when debug mode is
// enabled. By default it is a no-op. Set it via SetDebugLogger.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens the repository at path, or the current working directory
// when path is empty. DetectDotGit traverses up the directory tree to find
// the repository root.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// CurrentBranch returns the name of the current branch at path.
// Returns empty string in detached HEAD state.
func CurrentBranch(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	if !head.Name().IsBranch() {
		logDebug("[git] CurrentBranch: detached HEAD state")
		return "", nil
	}
	return head.Name().Short(), nil
}

// RepositoryRoot returns the absolute path to the repository root.
func RepositoryRoot(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}

// IsRepository checks if path is within a git repository.
func IsRepository(path string) bool {
	_, err := openRepo(path)
	return err == nil
}

// StageAndCommit stages the given files and commits them with message.
// File paths may be absolute or relative to path; they are resolved against
// the worktree root before staging. Returns the new commit hash.
func StageAndCommit(path string, files []string, message string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	root := worktree.Filesystem.Root()

	for _, file := range files {
		rel, err := worktreeRelative(root, path, file)
		if err != nil {
			return "", err
		}
		if _, err := worktree.Add(rel); err != nil {
			return "", fmt.Errorf("staging %s: %w", rel, err)
		}
		logDebug("[git] staged %s", rel)
	}

	sig := signature(repo)
	commit, err := worktree.Commit(message, &git.CommitOptions{
		Author: &sig,
	})
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}

	logDebug("[git] committed %s", commit.String())
	return commit.String(), nil
}

// CreateTag creates an annotated tag named name at HEAD.
func CreateTag(path, name, message string) error {
	repo, err := openRepo(path)
	if err != nil {
		return err
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	sig := signature(repo)
	_, err = repo.CreateTag(name, head.Hash(), &git.CreateTagOptions{
		Tagger:  &sig,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("creating tag %s: %w", name, err)
	}

	logDebug("[git] created tag %s at %s", name, head.Hash())
	return nil
}

// Push pushes branch and tag to the named remote. Either ref may be empty
// to skip it. Authentication is resolved from the SSH agent for SSH remotes
// and from environment credentials for HTTPS remotes; file remotes need
// none. "already up-to-date" is not an error.
func Push(ctx context.Context, path, remoteName, branch, tag string) error {
	repo, err := openRepo(path)
	if err != nil {
		return err
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		return fmt.Errorf("looking up remote %s: %w", remoteName, err)
	}

	var refSpecs []config.RefSpec
	if branch != "" {
		refSpecs = append(refSpecs,
			config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch)))
	}
	if tag != "" {
		refSpecs = append(refSpecs,
			config.RefSpec(fmt.Sprintf("refs/tags/%s:refs/tags/%s", tag, tag)))
	}
	if len(refSpecs) == 0 {
		return nil
	}

	var auth transport.AuthMethod
	if urls := remote.Config().URLs; len(urls) > 0 {
		auth = authForURL(urls[0])
	}

	logDebug("[git] pushing %v to %s", refSpecs, remoteName)

	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   refSpecs,
		Auth:       auth,
	})
	if err == git.NoErrAlreadyUpToDate {
		return nil
	}
	if err != nil {
		return fmt.Errorf("pushing to %s: %w", remoteName, err)
	}
	return nil
}

// signature builds the commit/tag signature from the repository
// configuration, falling back to the pontos identity.
func signature(repo *git.Repository) object.Signature {
	sig := fallbackSignature
	if cfg, err := repo.ConfigScoped(config.GlobalScope); err == nil {
		if cfg.User.Name != "" {
			sig.Name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			sig.Email = cfg.User.Email
		}
	}
	sig.When = time.Now()
	return sig
}

// worktreeRelative resolves file against base and rewrites it relative to
// the worktree root, as required by go-git's staging API.
func worktreeRelative(root, base, file string) (string, error) {
	abs := file
	if !filepath.IsAbs(abs) {
		if base == "" {
			base, _ = os.Getwd()
		}
		abs = filepath.Join(base, file)
	}
	if !filepath.IsAbs(abs) {
		abs, _ = filepath.Abs(abs)
	}
	if !filepath.IsAbs(root) {
		root, _ = filepath.Abs(root)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("resolving %s against worktree root %s: %w", file, root, err)
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("file %s is outside the worktree %s", file, root)
	}
	return filepath.ToSlash(rel), nil
}

// authForURL returns the authentication method for a remote URL.
// SSH URLs use SSH agent auth; HTTPS URLs use environment credentials.
func authForURL(url string) transport.AuthMethod {
	if isSSHURL(url) {
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	username := os.Getenv("GIT_USERNAME")
	password := os.Getenv("GIT_PASSWORD")
	if username == "" {
		username = os.Getenv("GITHUB_TOKEN")
		if username != "" {
			password = ""
		}
	}

	if username != "" {
		return &http.BasicAuth{
			Username: username,
			Password: password,
		}
	}
	return nil
}

// isSSHURL checks if a URL is an SSH URL.
// Detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

// ReleaseTag returns the tag reference name for a version with the
// configured prefix applied, leaving an already prefixed version alone.
func ReleaseTag(prefix, version string) string {
	if prefix != "" && strings.HasPrefix(version, prefix) {
		return version
	}
	return prefix + version
}

// HasTag reports whether the repository already has a tag with this name.
func HasTag(path, name string) (bool, error) {
	repo, err := openRepo(path)
	if err != nil {
		return false, err
	}

	_, err = repo.Reference(plumbing.NewTagReferenceName(name), false)
	if err == nil {
		return true, nil
	}
	if err == plumbing.ErrReferenceNotFound {
		return false, nil
	}
	return false, fmt.Errorf("checking tag %s: %w", name, err)
}
