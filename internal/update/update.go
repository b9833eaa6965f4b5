package update

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/Masterminds/semver/v3"
	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/ffbuild/ffbuild/internal/recipe"
)

// A pin rewritten by an update run.
type Change struct {
	Recipe string // Recipe name.
	File   string // Recipe file the pin lives in.
	Old    string // Previous pin.
	New    string // New pin.
}

// Lists the references advertised by a remote repository.
type refLister func(ctx context.Context, repo string) ([]*plumbing.Reference, error)

// Checks recipe pins against their upstreams and rewrites stale ones.
type Updater struct {
	dirs   []string
	lister refLister
}

// Creates an updater over the given recipe search paths.
func New(dirs ...string) *Updater {
	return &Updater{dirs: dirs, lister: listRemote}
}

// Checks every git-pinned source and rewrites pins that moved.
//
// With a tag filter, the highest version among matching tags becomes the
// pin; otherwise the head of the tracked (or default) branch does.
// Subversion and Mercurial pins are reported for manual checking. A failing
// remote only logs a warning so one unreachable upstream does not abort the
// sweep.
func (u *Updater) Run(ctx context.Context) ([]Change, error) {
	reg, err := recipe.Load(u.dirs...)
	if err != nil {
		return nil, err
	}

	var changes []Change
	for _, rec := range reg.All() {
		for _, src := range rec.Sources {
			switch src.Kind() {
			case recipe.PinCommit:
				change, err := u.checkSource(ctx, rec, src)
				if err != nil {
					slog.Warn("pin check failed", "recipe", rec.Name, "repo", src.Repo, "error", err)
					continue
				}
				if change != nil {
					changes = append(changes, *change)
				}

			case recipe.PinRevision, recipe.PinChangeset:
				slog.Warn("manual check required", "recipe", rec.Name, "kind", string(src.Kind()), "repo", src.Repo)
			}
		}
	}
	return changes, nil
}

// Checks one pinned git source, rewriting its recipe file if it moved.
func (u *Updater) checkSource(ctx context.Context, rec *recipe.Recipe, src recipe.Source) (*Change, error) {
	refs, err := u.lister(ctx, src.Repo)
	if err != nil {
		return nil, err
	}

	var pin string
	if src.TagFilter != "" {
		pin, err = latestTag(refs, src.TagFilter)
	} else {
		pin, err = branchHead(refs, src.Branch)
	}
	if err != nil {
		return nil, err
	}

	if pin == "" || pin == src.Commit {
		return nil, nil
	}

	if err := rewritePin(rec.Path(), src.Commit, pin); err != nil {
		return nil, err
	}

	slog.Info("pin updated", "recipe", rec.Name, "old", src.Commit, "new", pin)
	return &Change{Recipe: rec.Name, File: rec.Path(), Old: src.Commit, New: pin}, nil
}

// Picks the hash of the highest-versioned tag matching the filter glob.
//
// Tag names are compared as versions (a leading "v" is tolerated); tags
// that do not parse are ignored.
func latestTag(refs []*plumbing.Reference, filter string) (string, error) {
	var best *semver.Version
	var hash string

	for _, ref := range refs {
		if !ref.Name().IsTag() {
			continue
		}
		name := ref.Name().Short()
		if ok, err := path.Match(filter, name); err != nil || !ok {
			continue
		}

		v, err := semver.NewVersion(strings.TrimPrefix(name, "v"))
		if err != nil {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			hash = ref.Hash().String()
		}
	}

	if hash == "" {
		return "", fmt.Errorf("%w: no tags match %q", ErrUpdate, filter)
	}
	return hash, nil
}

// Returns the head commit of the tracked branch, or of the remote's default
// branch when no branch is pinned.
func branchHead(refs []*plumbing.Reference, branch string) (string, error) {
	if branch != "" {
		want := plumbing.NewBranchReferenceName(branch)
		for _, ref := range refs {
			if ref.Name() == want {
				return ref.Hash().String(), nil
			}
		}
		return "", fmt.Errorf("%w: branch %q not found", ErrUpdate, branch)
	}

	// Default branch: follow the remote HEAD, which most servers advertise
	// as a symbolic reference.
	for _, ref := range refs {
		if ref.Name() != plumbing.HEAD {
			continue
		}
		if ref.Type() == plumbing.SymbolicReference {
			target := ref.Target()
			for _, r := range refs {
				if r.Name() == target {
					return r.Hash().String(), nil
				}
			}
			return "", fmt.Errorf("%w: HEAD target %q not advertised", ErrUpdate, target)
		}
		return ref.Hash().String(), nil
	}

	return "", fmt.Errorf("%w: remote advertises no HEAD", ErrUpdate)
}

// Replaces the first occurrence of the old pin in the recipe file.
//
// Pins are full commit hashes, so a plain substring replacement cannot
// collide with anything else in the declaration.
func rewritePin(file, old, new string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpdate, err)
	}

	content := string(data)
	if !strings.Contains(content, old) {
		return fmt.Errorf("%w: pin %s not found in %s", ErrUpdate, old, file)
	}

	content = strings.Replace(content, old, new, 1)
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrUpdate, err)
	}
	return nil
}

// Lists remote references over the wire without a local clone.
func listRemote(ctx context.Context, repo string) ([]*plumbing.Reference, error) {
	rem := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{repo},
	})
	return rem.ListContext(ctx, &git.ListOptions{})
}
