package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"golang.org/x/sync/errgroup"

	"github.com/ffbuild/ffbuild/internal/recipe"
)

// Downloads recipe sources into the local cache.
//
// Each pinned source lands in its own immutable cache directory, so a pin
// change never invalidates another source and re-runs are cheap cache hits.
// Network fetches are the one retried operation in the whole build; nothing
// else is allowed to be flaky.
type Fetcher struct {
	root     string
	attempts int
	delay    time.Duration
	client   *http.Client
}

// Creates a fetcher rooted at the given cache directory.
func NewFetcher(root string) *Fetcher {
	return &Fetcher{
		root:     root,
		attempts: 3,
		delay:    2 * time.Second,
		client:   &http.Client{},
	}
}

// Returns the cache root the fetcher writes into.
func (f *Fetcher) Root() string {
	return f.root
}

// Fetches every source of every recipe in the plan, at most jobs at a time.
//
// Recipes with a download override fetch inside the build container and are
// skipped here. Downloads of independent sources run concurrently; the
// build stages themselves stay strictly sequential.
func (f *Fetcher) Prefetch(ctx context.Context, recipes []*recipe.Recipe, jobs int) error {
	if jobs < 1 {
		jobs = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, rec := range recipes {
		if rec.Download != "" {
			continue
		}
		for idx := range rec.Sources {
			g.Go(func() error {
				return f.fetchSource(ctx, rec, idx)
			})
		}
	}

	return g.Wait()
}

// Fetches a single recipe source into its cache directory.
func (f *Fetcher) fetchSource(ctx context.Context, rec *recipe.Recipe, idx int) error {
	src := rec.Sources[idx]
	dest := filepath.Join(f.root, Subdir(rec, idx))

	if _, err := os.Stat(dest); err == nil {
		slog.Debug("source cached", "recipe", rec.Name, "path", dest)
		return nil
	}

	switch src.Kind() {
	case recipe.PinCommit:
		return f.withRetry(ctx, rec.Name, func() error {
			return f.cloneGit(ctx, src, dest)
		})
	case recipe.PinRevision, recipe.PinChangeset:
		return fmt.Errorf("%w: %s: %s pin requires a download override",
			ErrFetch, rec.Name, src.Kind())
	default:
		if src.URL != "" {
			return f.withRetry(ctx, rec.Name, func() error {
				return f.download(ctx, src.URL, dest)
			})
		}
		return nil
	}
}

// Clones a git source and checks out its pinned commit.
//
// The clone lands in a ".part" staging directory and is renamed into place
// only after the checkout succeeds, so an interrupted fetch never poisons
// the cache.
func (f *Fetcher) cloneGit(ctx context.Context, src recipe.Source, dest string) error {
	tmp := dest + ".part"
	os.RemoveAll(tmp)

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}

	slog.Info("fetching source", "repo", src.Repo, "commit", shorten(src.Commit))

	repo, err := git.PlainCloneContext(ctx, tmp, false, &git.CloneOptions{
		URL:        src.Repo,
		NoCheckout: true,
	})
	if err != nil {
		os.RemoveAll(tmp)
		return fmt.Errorf("%w: cloning %s: %w", ErrFetch, src.Repo, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		os.RemoveAll(tmp)
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if err := wt.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(src.Commit)}); err != nil {
		os.RemoveAll(tmp)
		return fmt.Errorf("%w: checkout %s in %s: %w", ErrFetch, src.Commit, src.Repo, err)
	}

	return os.Rename(tmp, dest)
}

// Downloads a plain URL source into its cache directory.
//
// The file keeps its upstream name and is written through a ".part" temp
// file, renamed only on success.
func (f *Fetcher) download(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}

	target := filepath.Join(dest, path.Base(url))
	tmp := target + ".part"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s: status %s", ErrFetch, url, resp.Status)
	}

	fh, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if _, err := io.Copy(fh, resp.Body); err != nil {
		fh.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if err := fh.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}

	return os.Rename(tmp, target)
}

// Runs fn up to the configured number of attempts, backing off between
// failures. The context cancels the wait as well as the attempts.
func (f *Fetcher) withRetry(ctx context.Context, desc string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == f.attempts {
			break
		}

		slog.Warn("fetch failed, retrying",
			"recipe", desc,
			"attempt", attempt,
			"error", err,
		)

		select {
		case <-time.After(f.delay * time.Duration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
