package driver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// InstallOptions configures Install.
type InstallOptions struct {
	// CacheDir is the root under which git checkouts are stored.
	CacheDir string
	// Tool is recorded in the lockfile.
	Tool     string
	// Update re-resolves branch and tag pins instead of reusing the commits
	// recorded in package.lock.
	Update   bool
	Logger   *slog.Logger
}

// Install resolves every dependency of m, fetching git sources into the cache,
// and writes package.lock next to the manifest. Git dependencies already in
// package.lock stay on their locked commit, and a cached checkout whose
// checksum matches the lock is reused without cloning.
func Install(ctx context.Context, m *Manifest, opts InstallOptions) (*Lockfile, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	lockPath := filepath.Join(m.Dir(), LockFile)
	previous, err := LoadLockfile(lockPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		previous = nil
	case err != nil:
		return nil, err
	case opts.Update:
		previous = nil
	}

	fetcher := &gitFetcher{cacheDir: opts.CacheDir, logger: logger}
	lock := NewLockfile(m.Name, opts.Tool)

	for _, name := range m.DependencyNames() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		spec := m.Dependencies[name]
		var pkg *LockedPackage
		switch {
		case spec.Git != "":
			var locked *LockedPackage
			if previous != nil {
				locked, _ = previous.Find(name)
			}
			pkg, err = fetcher.Fetch(ctx, name, spec, locked)
		default:
			pkg, err = lockLocalPath(m.Dir(), name, spec)
		}
		if err != nil {
			return nil, fmt.Errorf("dependency %q: %w", name, err)
		}
		logger.Info("resolved dependency",
			slog.String("name", pkg.Name),
			slog.String("version", pkg.Version),
			slog.String("source", pkg.Source))
		lock.Packages = append(lock.Packages, pkg)
	}

	if err := WriteLockfile(lock, lockPath); err != nil {
		return nil, err
	}
	return lock, nil
}

func lockLocalPath(root, name string, spec *DependencySpec) (*LockedPackage, error) {
	dir := spec.Path
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("path %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path %s is not a directory", dir)
	}
	checksum, err := dirChecksum(dir)
	if err != nil {
		return nil, fmt.Errorf("checksum %s: %w", dir, err)
	}
	return &LockedPackage{
		Name:     sanitizeSegment(name),
		Version:  "path",
		Source:   "path:" + filepath.ToSlash(spec.Path),
		Checksum: checksum,
	}, nil
}

type gitFetcher struct {
	cacheDir string
	logger   *slog.Logger
}

// Fetch checks out spec into the cache. A locked entry for the same
// repository and pin fixes the commit.
func (g *gitFetcher) Fetch(ctx context.Context, name string, spec *DependencySpec, locked *LockedPackage) (*LockedPackage, error) {
	if g.cacheDir == "" {
		return nil, errors.New("git fetcher requires a cache directory")
	}
	url := strings.TrimSpace(spec.Git)
	baseDir := filepath.Join(g.cacheDir, "pkg", "src", sanitizeSegment(name))
	_, descriptor, err := gitRevisionFromSpec(spec)
	if err != nil {
		return nil, err
	}

	pinned := ""
	if commit, ok := lockedCommit(locked, url, descriptor); ok {
		pinned = commit
		targetDir := filepath.Join(baseDir, sanitizePathSegment(locked.Version))
		checksum, err := dirChecksum(targetDir)
		if err == nil && checksum == locked.Checksum {
			g.logger.Debug("reusing cached dependency", slog.String("name", name), slog.String("dir", targetDir))
			return &LockedPackage{
				Name:     sanitizeSegment(name),
				Version:  locked.Version,
				Source:   locked.Source,
				Checksum: checksum,
			}, nil
		}
		// Stale or modified checkout: fetch the locked commit again.
		if err := os.RemoveAll(targetDir); err != nil {
			return nil, err
		}
	}

	version, commit, err := ensureGitCheckout(ctx, baseDir, url, spec, pinned)
	if err != nil {
		return nil, err
	}
	checksum, err := dirChecksum(filepath.Join(baseDir, sanitizePathSegment(version)))
	if err != nil {
		return nil, err
	}
	return &LockedPackage{
		Name:     sanitizeSegment(name),
		Version:  version,
		Source:   gitSource(url, commit),
		Checksum: checksum,
	}, nil
}

func gitSource(url, commit string) string {
	return fmt.Sprintf("git+%s@%s", url, commit)
}

// lockedCommit returns the commit recorded for url when the locked version
// was produced by the same pin descriptor.
func lockedCommit(locked *LockedPackage, url, descriptor string) (string, bool) {
	if locked == nil {
		return "", false
	}
	rest, ok := strings.CutPrefix(locked.Source, "git+")
	if !ok {
		return "", false
	}
	at := strings.LastIndexByte(rest, '@')
	if at < 0 || rest[:at] != url {
		return "", false
	}
	commit := rest[at+1:]
	if commit == "" || locked.Version != gitPinnedVersion(descriptor, commit) {
		return "", false
	}
	return commit, true
}

// ensureGitCheckout clones url into a temporary directory, checks out the
// pinned revision (or commit, when non-empty) and moves it to
// baseDir/<version>. Existing checkouts are reused.
func ensureGitCheckout(ctx context.Context, baseDir, url string, spec *DependencySpec, commit string) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}
	revision, descriptor, err := gitRevisionFromSpec(spec)
	if err != nil {
		return "", "", err
	}
	if commit != "" {
		revision = plumbing.Revision(commit)
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	defer os.RemoveAll(tmpDir)
	cloneDir := filepath.Join(tmpDir, "repo")

	repo, err := git.PlainCloneContext(ctx, cloneDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}
	if err := os.Rename(cloneDir, targetDir); err != nil {
		return "", "", err
	}
	return version, hash.String(), nil
}

func gitPinnedVersion(descriptor, commit string) string {
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return descriptor + "@" + commit
}

func gitRevisionFromSpec(spec *DependencySpec) (plumbing.Revision, string, error) {
	switch {
	case spec.Rev != "":
		return plumbing.Revision(spec.Rev), spec.Rev, nil
	case spec.Tag != "":
		return plumbing.Revision("refs/tags/" + spec.Tag), spec.Tag, nil
	case spec.Branch != "":
		return plumbing.Revision("refs/heads/" + spec.Branch), spec.Branch, nil
	default:
		return "", "", fmt.Errorf("git dependencies require rev, tag, or branch")
	}
}

// dirChecksum hashes file names and contents under path, skipping .git.
func dirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "head"
	}
	return b.String()
}
