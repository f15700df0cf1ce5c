package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Installer resolves a manifest's dependencies into a local cache
// directory: path dependencies are synced in, git dependencies are cloned
// and checked out at their pinned revision.
type Installer struct {
	CacheDir string
}

// InstalledPackage records where one resolved dependency landed.
type InstalledPackage struct {
	Name   string
	Dir    string
	Source string
}

func NewInstaller(cacheDir string) (*Installer, error) {
	if strings.TrimSpace(cacheDir) == "" {
		return nil, fmt.Errorf("installer: cache directory required")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("installer: create cache %s: %w", cacheDir, err)
	}
	return &Installer{CacheDir: cacheDir}, nil
}

// Install resolves every dependency in m, in name order so repeated runs
// report deterministically.
func (ins *Installer) Install(m *Manifest) ([]InstalledPackage, error) {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	installed := make([]InstalledPackage, 0, len(names))
	for _, name := range names {
		dep := m.Dependencies[name]
		if dep == nil {
			continue
		}
		pkg, err := ins.installOne(m, name, dep)
		if err != nil {
			return installed, err
		}
		installed = append(installed, pkg)
	}
	return installed, nil
}

func (ins *Installer) installOne(m *Manifest, name string, dep *DependencySpec) (InstalledPackage, error) {
	switch {
	case dep.Path != "":
		return ins.installPath(m, name, dep)
	case dep.Git != "":
		return ins.installGit(name, dep)
	default:
		return InstalledPackage{}, fmt.Errorf("installer: dependency %q has no path or git source (registry resolution is not supported)", name)
	}
}

// installPath syncs a local path dependency into the cache. The path is
// resolved relative to the manifest's directory.
func (ins *Installer) installPath(m *Manifest, name string, dep *DependencySpec) (InstalledPackage, error) {
	src := dep.Path
	if !filepath.IsAbs(src) {
		src = filepath.Join(filepath.Dir(m.Path), src)
	}
	info, err := os.Stat(src)
	if err != nil {
		return InstalledPackage{}, fmt.Errorf("installer: dependency %q: %w", name, err)
	}
	if !info.IsDir() {
		return InstalledPackage{}, fmt.Errorf("installer: dependency %q: %s is not a directory", name, src)
	}
	dst := filepath.Join(ins.CacheDir, "src", sanitizeSegment(name))
	if err := syncDir(src, dst); err != nil {
		return InstalledPackage{}, fmt.Errorf("installer: dependency %q: sync %s: %w", name, src, err)
	}
	return InstalledPackage{Name: name, Dir: dst, Source: "path:" + src}, nil
}

// installGit clones the dependency's repository into the cache (or reuses
// an existing clone) and checks out the pinned rev/tag/branch, defaulting
// to the remote HEAD.
func (ins *Installer) installGit(name string, dep *DependencySpec) (InstalledPackage, error) {
	dir := filepath.Join(ins.CacheDir, "src", sanitizeSegment(name))
	repo, err := git.PlainOpen(dir)
	if err != nil {
		repo, err = git.PlainClone(dir, false, &git.CloneOptions{URL: dep.Git})
		if err != nil {
			return InstalledPackage{}, fmt.Errorf("installer: dependency %q: clone %s: %w", name, dep.Git, err)
		}
	}

	revision := gitRevision(dep)
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		return InstalledPackage{}, fmt.Errorf("installer: dependency %q: resolve %s: %w", name, revision, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return InstalledPackage{}, fmt.Errorf("installer: dependency %q: %w", name, err)
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return InstalledPackage{}, fmt.Errorf("installer: dependency %q: checkout %s: %w", name, hash, err)
	}
	return InstalledPackage{
		Name:   name,
		Dir:    dir,
		Source: fmt.Sprintf("git+%s@%s", dep.Git, hash.String()),
	}, nil
}

func gitRevision(dep *DependencySpec) plumbing.Revision {
	switch {
	case dep.Rev != "":
		return plumbing.Revision(dep.Rev)
	case dep.Tag != "":
		return plumbing.Revision("refs/tags/" + dep.Tag)
	case dep.Branch != "":
		return plumbing.Revision("refs/heads/" + dep.Branch)
	default:
		return plumbing.Revision("HEAD")
	}
}

var segmentPattern = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeSegment(name string) string {
	cleaned := segmentPattern.ReplaceAllString(strings.TrimSpace(name), "-")
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		return "dep"
	}
	return cleaned
}

// syncDir mirrors src into dst, removing entries that no longer exist.
func syncDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if dstEntries, err := os.ReadDir(dst); err == nil {
		for _, existing := range dstEntries {
			stale := true
			for _, entry := range entries {
				if entry.Name() == existing.Name() {
					stale = false
					break
				}
			}
			if stale {
				if err := os.RemoveAll(filepath.Join(dst, existing.Name())); err != nil {
					return err
				}
			}
		}
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := syncDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
