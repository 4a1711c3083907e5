package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestInstallGitDependency(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repo, "lib.rt"), "greet()\n  println(\"hi\")\n")
	rev := initGitRepo(t, repo)

	tests := []struct {
		name        string
		pin         string
		wantVersion string
	}{
		{name: "rev", pin: "rev: " + rev, wantVersion: rev},
		{name: "branch", pin: "branch: master", wantVersion: "master@" + rev},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			appDir := filepath.Join(root, "app-"+tc.name)
			writeFile(t, filepath.Join(appDir, ManifestFile), `
name: app
dependencies:
  greeter:
    git: `+repo+`
    `+tc.pin+`
`)
			manifest, err := LoadManifest(filepath.Join(appDir, ManifestFile))
			if err != nil {
				t.Fatalf("LoadManifest: %v", err)
			}
			cacheDir := filepath.Join(root, "cache-"+tc.name)
			lock, err := Install(context.Background(), manifest, InstallOptions{CacheDir: cacheDir, Tool: "rts test"})
			if err != nil {
				t.Fatalf("Install error: %v", err)
			}
			pkg, ok := lock.Find("greeter")
			if !ok {
				t.Fatalf("missing greeter entry: %#v", lock.Packages)
			}
			if pkg.Version != tc.wantVersion {
				t.Fatalf("pkg.Version = %q, want %q", pkg.Version, tc.wantVersion)
			}
			if want := fmt.Sprintf("git+%s@%s", repo, rev); pkg.Source != want {
				t.Fatalf("pkg.Source = %q, want %q", pkg.Source, want)
			}
			cached := filepath.Join(cacheDir, "pkg", "src", pkg.Name, sanitizePathSegment(pkg.Version), "lib.rt")
			if _, err := os.Stat(cached); err != nil {
				t.Fatalf("expected cached checkout at %s: %v", cached, err)
			}
			if _, err := os.Stat(filepath.Join(appDir, LockFile)); err != nil {
				t.Fatalf("lockfile not written: %v", err)
			}
		})
	}
}

func TestInstallKeepsLockedCommit(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repo, "lib.rt"), "v = 1\n")
	first := initGitRepo(t, repo)

	appDir := filepath.Join(root, "app")
	writeFile(t, filepath.Join(appDir, ManifestFile), `
name: app
dependencies:
  lib:
    git: `+repo+`
    branch: master
`)
	manifest, err := LoadManifest(filepath.Join(appDir, ManifestFile))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	opts := InstallOptions{CacheDir: filepath.Join(root, "cache")}
	if _, err := Install(context.Background(), manifest, opts); err != nil {
		t.Fatalf("Install error: %v", err)
	}

	second := commitFile(t, repo, "lib.rt", "v = 2\n")

	lock, err := Install(context.Background(), manifest, opts)
	if err != nil {
		t.Fatalf("second Install error: %v", err)
	}
	pkg, _ := lock.Find("lib")
	if want := "master@" + first; pkg == nil || pkg.Version != want {
		t.Fatalf("locked version = %#v, want %q", pkg, want)
	}

	opts.Update = true
	lock, err = Install(context.Background(), manifest, opts)
	if err != nil {
		t.Fatalf("update Install error: %v", err)
	}
	pkg, _ = lock.Find("lib")
	if want := "master@" + second; pkg == nil || pkg.Version != want {
		t.Fatalf("updated version = %#v, want %q", pkg, want)
	}
}

func TestInstallReusesCachedCheckout(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	writeFile(t, filepath.Join(repo, "lib.rt"), "v = 1\n")
	rev := initGitRepo(t, repo)

	appDir := filepath.Join(root, "app")
	writeFile(t, filepath.Join(appDir, ManifestFile), `
name: app
dependencies:
  lib:
    git: `+repo+`
    rev: `+rev+`
`)
	manifest, err := LoadManifest(filepath.Join(appDir, ManifestFile))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	opts := InstallOptions{CacheDir: filepath.Join(root, "cache")}
	lock, err := Install(context.Background(), manifest, opts)
	if err != nil {
		t.Fatalf("Install error: %v", err)
	}
	original, _ := lock.Find("lib")
	cached := filepath.Join(opts.CacheDir, "pkg", "src", "lib", sanitizePathSegment(original.Version), "lib.rt")

	// A modified checkout is replaced from the locked commit.
	writeFile(t, cached, "v = 99\n")
	lock, err = Install(context.Background(), manifest, opts)
	if err != nil {
		t.Fatalf("Install after tamper error: %v", err)
	}
	restored, _ := lock.Find("lib")
	if restored.Checksum != original.Checksum {
		t.Fatalf("checksum = %q, want %q", restored.Checksum, original.Checksum)
	}
	data, err := os.ReadFile(cached)
	if err != nil || string(data) != "v = 1\n" {
		t.Fatalf("cached file = %q, %v", data, err)
	}

	// A matching checkout needs no clone, so the source may disappear.
	if err := os.RemoveAll(repo); err != nil {
		t.Fatalf("remove repo: %v", err)
	}
	lock, err = Install(context.Background(), manifest, opts)
	if err != nil {
		t.Fatalf("Install without source error: %v", err)
	}
	if pkg, _ := lock.Find("lib"); pkg.Checksum != original.Checksum || pkg.Source != original.Source {
		t.Fatalf("reused entry = %#v, want %#v", pkg, original)
	}
}

func TestLockedCommit(t *testing.T) {
	locked := &LockedPackage{Version: "main@abc", Source: "git+https://example.com/r.git@abc"}
	tests := []struct {
		name       string
		locked     *LockedPackage
		url        string
		descriptor string
		want       string
		ok         bool
	}{
		{name: "match", locked: locked, url: "https://example.com/r.git", descriptor: "main", want: "abc", ok: true},
		{name: "other url", locked: locked, url: "https://example.com/other.git", descriptor: "main"},
		{name: "other pin", locked: locked, url: "https://example.com/r.git", descriptor: "dev"},
		{name: "path entry", locked: &LockedPackage{Version: "path", Source: "path:../r"}, url: "../r", descriptor: "main"},
		{name: "no entry", url: "https://example.com/r.git", descriptor: "main"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := lockedCommit(tc.locked, tc.url, tc.descriptor)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("lockedCommit = %q, %v, want %q, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestInstallPathDependency(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "util", "util.rt"), "x = 1\n")
	writeFile(t, filepath.Join(root, "app", ManifestFile), `
name: app
dependencies:
  util: ../util
`)
	manifest, err := LoadManifest(filepath.Join(root, "app", ManifestFile))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	lock, err := Install(context.Background(), manifest, InstallOptions{CacheDir: filepath.Join(root, "cache")})
	if err != nil {
		t.Fatalf("Install error: %v", err)
	}
	pkg, ok := lock.Find("util")
	if !ok || pkg.Source != "path:../util" || pkg.Checksum == "" {
		t.Fatalf("unexpected path entry: %#v", pkg)
	}

	loaded, err := LoadLockfile(filepath.Join(root, "app", LockFile))
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if got, _ := loaded.Find("util"); got == nil || got.Checksum != pkg.Checksum {
		t.Fatalf("lockfile on disk disagrees: %#v", got)
	}
}

func TestInstallMissingPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestFile), `
name: app
dependencies:
  util: ./missing
`)
	manifest, err := LoadManifest(filepath.Join(root, ManifestFile))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	_, err = Install(context.Background(), manifest, InstallOptions{})
	if err == nil || !strings.Contains(err.Error(), `dependency "util"`) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestDirChecksumTracksContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.rt"), "a = 1\n")
	first, err := dirChecksum(dir)
	if err != nil {
		t.Fatalf("dirChecksum: %v", err)
	}
	writeFile(t, filepath.Join(dir, "a.rt"), "a = 2\n")
	second, err := dirChecksum(dir)
	if err != nil {
		t.Fatalf("dirChecksum: %v", err)
	}
	if first == second {
		t.Fatal("checksum did not change with content")
	}
}

func TestSanitizePathSegment(t *testing.T) {
	tests := map[string]string{
		"":            "head",
		"v1.2.0":      "v1.2.0",
		"feature/x y": "feature_x_y",
		"main@abc":    "main_abc",
	}
	for in, want := range tests {
		if got := sanitizePathSegment(in); got != want {
			t.Errorf("sanitizePathSegment(%q) = %q, want %q", in, got, want)
		}
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimLeft(contents, "\n")), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = worktree.Add(filepath.ToSlash(rel))
		return err
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "rts",
			Email: "rts@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func commitFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	writeFile(t, filepath.Join(dir, name), contents)
	repo, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatalf("PlainOpen: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := worktree.Add(name); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hash, err := worktree.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "rts",
			Email: "rts@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}
