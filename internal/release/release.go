// Package release orchestrates a full release: bump the version files,
// rewrite the changelog, commit, tag, push, and create the remote
// release on GitHub.
package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nichtsfrei/pontos/internal/changelog"
	"github.com/nichtsfrei/pontos/internal/git"
	"github.com/nichtsfrei/pontos/internal/github"
	"github.com/nichtsfrei/pontos/internal/logger"
	"github.com/nichtsfrei/pontos/internal/progress"
	"github.com/nichtsfrei/pontos/internal/version"
)

// DefaultChangelogFile is the conventional changelog location.
const DefaultChangelogFile = "CHANGELOG.md"

// ErrNothingToRelease is returned by Run when the changelog has no
// Unreleased section with entries. The working tree is left untouched.
var ErrNothingToRelease = errors.New("no unreleased changelog entries found")

// Options configures a release run. Paths are resolved relative to
// ProjectDir unless absolute.
type Options struct {
	// ProjectDir is the repository checkout the release happens in.
	ProjectDir string

	// ReleaseVersion is the version to release, without tag prefix.
	ReleaseVersion string

	// ChangelogFile is the changelog path, default CHANGELOG.md.
	ChangelogFile string

	// ManifestFile is the pontos manifest path, default pontos.toml.
	ManifestFile string

	// TagPrefix is prepended to the version for the git tag and the
	// comparison links, commonly "v".
	TagPrefix string

	// Space is the GitHub owner (user or organisation).
	Space string

	// Project is the GitHub repository name. Empty defaults to the
	// manifest's project name.
	Project string

	// Remote is the git remote pushed to, default "origin".
	Remote string

	// InsertSkeleton adds a fresh empty Unreleased section after the
	// release entry is renamed.
	InsertSkeleton bool

	// ReleaseName names the GitHub release. Empty lets GitHub derive it
	// from the tag.
	ReleaseName string

	// TargetCommitish pins the release to a branch or commit. Empty
	// releases the default branch head.
	TargetCommitish string

	// Draft and Prerelease mark the GitHub release accordingly.
	Draft      bool
	Prerelease bool

	// DryRun computes and prints the changelog body without writing
	// files, committing, or talking to any remote.
	DryRun bool

	// PushTimeout bounds the push operation, default git.DefaultPushTimeout.
	PushTimeout time.Duration

	// Client is the GitHub API client. When nil a token is resolved from
	// the environment and a default client is created.
	Client *github.Client

	// Today reports the release date, overridable in tests.
	Today func() time.Time
}

// Runner executes the release steps in order and reports progress.
type Runner struct {
	opts    Options
	display *progress.Display
	out     io.Writer
}

// NewRunner creates a runner after filling in option defaults.
func NewRunner(opts Options, display *progress.Display) (*Runner, error) {
	if opts.ReleaseVersion == "" {
		return nil, fmt.Errorf("no release version given")
	}
	if !version.IsSemver(opts.ReleaseVersion) {
		return nil, fmt.Errorf("release version %q is not a semantic version", opts.ReleaseVersion)
	}
	if opts.Space == "" {
		return nil, fmt.Errorf("no space (GitHub owner) given")
	}
	if opts.ProjectDir == "" {
		opts.ProjectDir = "."
	}
	if opts.ChangelogFile == "" {
		opts.ChangelogFile = DefaultChangelogFile
	}
	if opts.ManifestFile == "" {
		opts.ManifestFile = version.DefaultManifestFile
	}
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	if opts.PushTimeout == 0 {
		opts.PushTimeout = git.DefaultPushTimeout
	}
	return &Runner{opts: opts, display: display, out: os.Stdout}, nil
}

// SetOutput redirects informational output, mainly for tests.
func (r *Runner) SetOutput(w io.Writer) {
	r.out = w
	r.display.SetOutput(w)
}

func (r *Runner) path(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(r.opts.ProjectDir, file)
}

// Run performs the release. The returned error carries the first failing
// step; earlier steps are not rolled back.
func (r *Runner) Run(ctx context.Context) error {
	opts := r.opts

	if !git.IsRepository(opts.ProjectDir) {
		return fmt.Errorf("%s is not a git repository", opts.ProjectDir)
	}
	branch, err := git.CurrentBranch(opts.ProjectDir)
	if err != nil {
		return err
	}

	tag := git.ReleaseTag(opts.TagPrefix, opts.ReleaseVersion)
	if exists, err := git.HasTag(opts.ProjectDir, tag); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("tag %s already exists", tag)
	}

	cmd, err := version.NewCommand(r.path(opts.ManifestFile), io.Discard)
	if err != nil {
		return err
	}
	project := opts.Project
	if project == "" {
		project = cmd.ProjectName()
	}
	if project == "" {
		return fmt.Errorf("no project name in options or manifest")
	}

	r.display.StartStep("Updating changelog")
	changelogPath := r.path(opts.ChangelogFile)
	doc, err := os.ReadFile(changelogPath)
	if err != nil {
		r.display.Fail("Updating changelog failed")
		return fmt.Errorf("reading changelog: %w", err)
	}

	result := changelog.NewParser(string(doc)).Update(changelog.UpdateOptions{
		NewVersion:     opts.ReleaseVersion,
		TagPrefix:      opts.TagPrefix,
		InsertSkeleton: opts.InsertSkeleton,
		CompareBase:    fmt.Sprintf("https://github.com/%s/%s", opts.Space, project),
		Today:          opts.Today,
	})
	if !result.Released() {
		r.display.Fail("No unreleased changelog entries found")
		fmt.Fprintln(r.out, "Nothing to release.")
		return ErrNothingToRelease
	}

	if opts.DryRun {
		r.display.Succeed("Updated changelog (dry run)")
		fmt.Fprintln(r.out, result.ChangelogBody)
		return nil
	}

	if err := os.WriteFile(changelogPath, []byte(result.Updated), 0o644); err != nil {
		r.display.Fail("Updating changelog failed")
		return fmt.Errorf("writing changelog: %w", err)
	}
	r.display.Succeed("Updated changelog")

	r.display.StartStep(fmt.Sprintf("Updating version to %s", opts.ReleaseVersion))
	versionFiles, err := cmd.Files()
	if err != nil {
		r.display.Fail("Updating version failed")
		return err
	}
	if _, err := cmd.Update(opts.ReleaseVersion, true); err != nil {
		r.display.Fail("Updating version failed")
		return err
	}
	r.display.Succeed(fmt.Sprintf("Updated version to %s", opts.ReleaseVersion))

	r.display.StartStep("Committing release changes")
	files := append(versionFiles, changelogPath)
	commit, err := git.StageAndCommit(opts.ProjectDir, files,
		fmt.Sprintf("Automatic release to %s", opts.ReleaseVersion))
	if err != nil {
		r.display.Fail("Committing release changes failed")
		return err
	}
	logger.Debug("created release commit %s", commit)
	r.display.Succeed("Committed release changes")

	r.display.StartStep(fmt.Sprintf("Creating tag %s", tag))
	if err := git.CreateTag(opts.ProjectDir, tag,
		fmt.Sprintf("Automatic release to %s", opts.ReleaseVersion)); err != nil {
		r.display.Fail("Creating tag failed")
		return err
	}
	r.display.Succeed(fmt.Sprintf("Created tag %s", tag))

	r.display.StartStep(fmt.Sprintf("Pushing %s and %s to %s", branch, tag, opts.Remote))
	pushCtx, cancel := context.WithTimeout(ctx, opts.PushTimeout)
	defer cancel()
	if err := git.Push(pushCtx, opts.ProjectDir, opts.Remote, branch, tag); err != nil {
		r.display.Fail("Pushing failed")
		return err
	}
	r.display.Succeed(fmt.Sprintf("Pushed %s and %s to %s", branch, tag, opts.Remote))

	r.display.StartStep("Creating GitHub release")
	client := opts.Client
	if client == nil {
		token, err := github.Token()
		if err != nil {
			r.display.Fail("Creating GitHub release failed")
			return err
		}
		client = github.NewClient(token)
	}
	params := github.BuildReleaseParams(opts.ReleaseVersion, result.ChangelogBody,
		opts.ReleaseName, opts.TargetCommitish, opts.TagPrefix, opts.Draft, opts.Prerelease)
	status, err := client.CreateRelease(ctx, opts.Space, project, params)
	if err != nil {
		r.display.Fail(fmt.Sprintf("Creating GitHub release failed (HTTP %d)", status))
		return err
	}
	r.display.Succeed(fmt.Sprintf("Created GitHub release %s", tag))

	fmt.Fprintf(r.out, "Released %s/%s %s\n", opts.Space, project, tag)
	return nil
}
