// Package sandbox confines caller-supplied relative paths to a root directory.
package sandbox

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// ErrInvalidPath is returned for any path whose canonical form leaves the root.
var ErrInvalidPath = errors.New("invalid_path")

// Resolve joins rel onto root and returns the absolute result if it stays at
// or below root. Leading separators in rel are dropped, so rel is always
// treated as relative. Containment is checked on the cleaned path and again
// after resolving symlinks in the part of the path that already exists.
func Resolve(root, rel string) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	rootAbs = filepath.Clean(rootAbs)

	rel = strings.TrimSpace(rel)
	rel = strings.TrimLeft(rel, `/\`)
	if strings.ContainsRune(rel, 0) {
		return "", ErrInvalidPath
	}

	target := filepath.Clean(filepath.Join(rootAbs, filepath.FromSlash(rel)))
	if !within(rootAbs, target) {
		return "", ErrInvalidPath
	}

	realRoot, err := evalExisting(rootAbs)
	if err != nil {
		return "", err
	}
	realTarget, err := evalExisting(target)
	if err != nil {
		return "", err
	}
	if !within(realRoot, realTarget) {
		return "", ErrInvalidPath
	}
	return target, nil
}

func within(root, p string) bool {
	if p == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(p, prefix)
}

// evalExisting resolves symlinks in the longest existing prefix of p and
// re-appends the missing tail.
func evalExisting(p string) (string, error) {
	var tail []string
	cur := p
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			parts := append([]string{resolved}, tail...)
			return filepath.Join(parts...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return "", err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p, nil
		}
		tail = append([]string{filepath.Base(cur)}, tail...)
		cur = parent
	}
}

// Sandbox binds Resolve to a fixed root.
type Sandbox struct {
	root string
}

func New(root string) *Sandbox {
	return &Sandbox{root: root}
}

func (s *Sandbox) Root() string {
	return s.root
}

func (s *Sandbox) Resolve(rel string) (string, error) {
	return Resolve(s.root, rel)
}

// IsRoot reports whether an already resolved path is the root itself.
func (s *Sandbox) IsRoot(resolved string) bool {
	rootAbs, err := filepath.Abs(s.root)
	if err != nil {
		return false
	}
	return filepath.Clean(rootAbs) == resolved
}

// EnsureRoot creates the root directory if it is missing.
func (s *Sandbox) EnsureRoot() error {
	return os.MkdirAll(s.root, 0o755)
}
