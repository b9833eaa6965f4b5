package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ffbuild/ffbuild/internal/recipe"
)

func TestPrefetchSkipsDownloadOverride(t *testing.T) {
	f := NewFetcher(t.TempDir())

	recipes := []*recipe.Recipe{
		{
			Name:     "libmp3lame",
			Sources:  []recipe.Source{{Repo: "https://example.invalid/svn", Revision: "6531"}},
			Download: "svn checkout ...",
		},
	}

	// The revision pin would fail without an override; the override makes
	// Prefetch skip the recipe entirely.
	if err := f.Prefetch(context.Background(), recipes, 4); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}
}

func TestPrefetchRevisionWithoutOverride(t *testing.T) {
	f := NewFetcher(t.TempDir())

	recipes := []*recipe.Recipe{
		{
			Name:    "lame",
			Sources: []recipe.Source{{Repo: "https://example.invalid/svn", Revision: "6531"}},
		},
	}

	err := f.Prefetch(context.Background(), recipes, 1)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
}

func TestPrefetchCacheHit(t *testing.T) {
	root := t.TempDir()
	f := NewFetcher(root)

	rec := &recipe.Recipe{
		Name:    "zlib",
		Sources: []recipe.Source{{Repo: "https://example.invalid/zlib.git", Commit: "51b7f2abdade71cd9bb0e7a373ef2610ec6f9daf"}},
	}

	// Pre-populate the cache directory; the unreachable repo must never be
	// contacted.
	cached := filepath.Join(root, Subdir(rec, 0))
	if err := os.MkdirAll(cached, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := f.Prefetch(context.Background(), []*recipe.Recipe{rec}, 1); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}
}

func TestPrefetchUnpinnedSourceIgnored(t *testing.T) {
	f := NewFetcher(t.TempDir())

	rec := &recipe.Recipe{
		Name:    "meta",
		Sources: []recipe.Source{{Repo: "https://example.invalid/meta.git"}},
	}
	if err := f.Prefetch(context.Background(), []*recipe.Recipe{rec}, 1); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tarball-bytes"))
	}))
	defer srv.Close()

	root := t.TempDir()
	f := NewFetcher(root)

	rec := &recipe.Recipe{
		Name:    "tarball",
		Sources: []recipe.Source{{URL: srv.URL + "/release-1.0.tar.gz"}},
	}
	if err := f.Prefetch(context.Background(), []*recipe.Recipe{rec}, 1); err != nil {
		t.Fatalf("Prefetch: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(root, Subdir(rec, 0), "release-1.0.tar.gz"))
	if err != nil {
		t.Fatalf("reading cached file: %v", err)
	}
	if string(got) != "tarball-bytes" {
		t.Fatalf("cached content = %q, want tarball-bytes", got)
	}
}

func TestDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	f.attempts = 1

	rec := &recipe.Recipe{
		Name:    "tarball",
		Sources: []recipe.Source{{URL: srv.URL + "/missing.tar.gz"}},
	}
	err := f.Prefetch(context.Background(), []*recipe.Recipe{rec}, 1)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
}

func TestWithRetry(t *testing.T) {
	f := NewFetcher(t.TempDir())
	f.delay = time.Millisecond

	calls := 0
	err := f.withRetry(context.Background(), "r", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withRetry: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestWithRetryExhausts(t *testing.T) {
	f := NewFetcher(t.TempDir())
	f.delay = time.Millisecond

	calls := 0
	bad := errors.New("permanent")
	err := f.withRetry(context.Background(), "r", func() error {
		calls++
		return bad
	})
	if !errors.Is(err, bad) {
		t.Fatalf("err = %v, want the last attempt's error", err)
	}
	if calls != f.attempts {
		t.Fatalf("calls = %d, want %d", calls, f.attempts)
	}
}

func TestWithRetryCancelled(t *testing.T) {
	f := NewFetcher(t.TempDir())
	f.delay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.withRetry(ctx, "r", func() error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
