package update

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
)

func tagRef(name, hash string) *plumbing.Reference {
	return plumbing.NewHashReference(plumbing.NewTagReferenceName(name), plumbing.NewHash(hash))
}

func branchRef(name, hash string) *plumbing.Reference {
	return plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), plumbing.NewHash(hash))
}

const (
	hashA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	hashB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	hashC = "cccccccccccccccccccccccccccccccccccccccc"
)

func TestLatestTag(t *testing.T) {
	refs := []*plumbing.Reference{
		tagRef("v1.2.0", hashA),
		tagRef("v1.10.0", hashB),
		tagRef("v1.9.1", hashC),
		branchRef("master", hashC),
	}

	got, err := latestTag(refs, "v*")
	if err != nil {
		t.Fatalf("latestTag: %v", err)
	}
	// Version comparison, not lexical: 1.10.0 beats 1.9.1.
	if got != hashB {
		t.Fatalf("latestTag = %s, want %s", got, hashB)
	}
}

func TestLatestTagFilter(t *testing.T) {
	refs := []*plumbing.Reference{
		tagRef("v1.5.0", hashA),
		tagRef("v2.0.0-rc1", hashB),
		tagRef("n7.1", hashC),
	}

	got, err := latestTag(refs, "v1.*")
	if err != nil {
		t.Fatalf("latestTag: %v", err)
	}
	if got != hashA {
		t.Fatalf("latestTag = %s, want %s", got, hashA)
	}
}

func TestLatestTagUnparseableIgnored(t *testing.T) {
	refs := []*plumbing.Reference{
		tagRef("v1.0.0", hashA),
		tagRef("vFinal", hashB),
	}

	got, err := latestTag(refs, "v*")
	if err != nil {
		t.Fatalf("latestTag: %v", err)
	}
	if got != hashA {
		t.Fatalf("latestTag = %s, want %s", got, hashA)
	}
}

func TestLatestTagNoMatch(t *testing.T) {
	refs := []*plumbing.Reference{tagRef("release-1", hashA)}
	_, err := latestTag(refs, "v*")
	if !errors.Is(err, ErrUpdate) {
		t.Fatalf("err = %v, want ErrUpdate", err)
	}
}

func TestBranchHeadNamed(t *testing.T) {
	refs := []*plumbing.Reference{
		branchRef("master", hashA),
		branchRef("SDL2", hashB),
	}

	got, err := branchHead(refs, "SDL2")
	if err != nil {
		t.Fatalf("branchHead: %v", err)
	}
	if got != hashB {
		t.Fatalf("branchHead = %s, want %s", got, hashB)
	}

	if _, err := branchHead(refs, "absent"); !errors.Is(err, ErrUpdate) {
		t.Fatalf("err = %v, want ErrUpdate for a missing branch", err)
	}
}

func TestBranchHeadDefault(t *testing.T) {
	refs := []*plumbing.Reference{
		plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main")),
		branchRef("main", hashC),
		branchRef("dev", hashA),
	}

	got, err := branchHead(refs, "")
	if err != nil {
		t.Fatalf("branchHead: %v", err)
	}
	if got != hashC {
		t.Fatalf("branchHead = %s, want %s", got, hashC)
	}
}

func TestBranchHeadNoHead(t *testing.T) {
	refs := []*plumbing.Reference{branchRef("main", hashA)}
	if _, err := branchHead(refs, ""); !errors.Is(err, ErrUpdate) {
		t.Fatalf("err = %v, want ErrUpdate", err)
	}
}

func TestRewritePin(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "10-zlib.yaml")
	content := "name: zlib\nsources:\n  - repo: r\n    commit: " + hashA + "\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := rewritePin(file, hashA, hashB); err != nil {
		t.Fatalf("rewritePin: %v", err)
	}

	got, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(got), hashB) || strings.Contains(string(got), hashA) {
		t.Fatalf("file after rewrite:\n%s", got)
	}
}

func TestRewritePinMissing(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "10-zlib.yaml")
	if err := os.WriteFile(file, []byte("name: zlib\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := rewritePin(file, hashA, hashB); !errors.Is(err, ErrUpdate) {
		t.Fatalf("err = %v, want ErrUpdate", err)
	}
}

func TestRunRewritesStalePin(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "10-zlib.yaml")
	content := "name: zlib\nsources:\n  - repo: https://example.com/zlib.git\n" +
		"    commit: " + hashA + "\n    tagFilter: v*\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	u := New(dir)
	u.lister = func(ctx context.Context, repo string) ([]*plumbing.Reference, error) {
		return []*plumbing.Reference{tagRef("v1.3.0", hashB)}, nil
	}

	changes, err := u.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("changes = %v, want one", changes)
	}
	if changes[0].Recipe != "zlib" || changes[0].Old != hashA || changes[0].New != hashB {
		t.Fatalf("change = %+v", changes[0])
	}

	got, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(got), hashB) {
		t.Fatalf("pin not rewritten:\n%s", got)
	}
}

func TestRunUpToDate(t *testing.T) {
	dir := t.TempDir()
	content := "name: zlib\nsources:\n  - repo: r\n    commit: " + hashA + "\n    tagFilter: v*\n"
	if err := os.WriteFile(filepath.Join(dir, "10-zlib.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	u := New(dir)
	u.lister = func(ctx context.Context, repo string) ([]*plumbing.Reference, error) {
		return []*plumbing.Reference{tagRef("v1.3.0", hashA)}, nil
	}

	changes, err := u.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("changes = %v, want none", changes)
	}
}

func TestRunRemoteFailureContinues(t *testing.T) {
	dir := t.TempDir()
	broken := "name: broken\nsources:\n  - repo: r1\n    commit: " + hashA + "\n"
	fine := "name: fine\nsources:\n  - repo: r2\n    commit: " + hashB + "\n    tagFilter: v*\n"
	if err := os.WriteFile(filepath.Join(dir, "10-broken.yaml"), []byte(broken), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "20-fine.yaml"), []byte(fine), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	u := New(dir)
	u.lister = func(ctx context.Context, repo string) ([]*plumbing.Reference, error) {
		if repo == "r1" {
			return nil, errors.New("connection refused")
		}
		return []*plumbing.Reference{tagRef("v2.0.0", hashC)}, nil
	}

	changes, err := u.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(changes) != 1 || changes[0].Recipe != "fine" {
		t.Fatalf("changes = %v, want one for fine", changes)
	}
}
