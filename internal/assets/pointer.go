package assets

import (
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
)

// Pointer creates the stable "latest" file for a kind. Implementations assume
// any previous pointer has already been removed.
type Pointer interface {
	Point(target, pointer string) error
	Name() string
}

// SymlinkPointer links pointer to target's basename, relative to the pointer's
// directory, so the served tree can be moved or bind-mounted as a whole.
type SymlinkPointer struct{}

func (SymlinkPointer) Name() string { return "symlink" }

func (SymlinkPointer) Point(target, pointer string) error {
	rel, err := filepath.Rel(filepath.Dir(pointer), target)
	if err != nil {
		rel = filepath.Base(target)
	}
	if err := os.Symlink(rel, pointer); err != nil {
		return goerr.Wrap(err, "create symlink", goerr.V("pointer", pointer), goerr.V("target", rel))
	}
	return nil
}

// CopyPointer writes a full copy of target at pointer.
type CopyPointer struct{}

func (CopyPointer) Name() string { return "copy" }

func (CopyPointer) Point(target, pointer string) error {
	src, err := os.Open(target)
	if err != nil {
		return goerr.Wrap(err, "open pointer source", goerr.V("target", target))
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(src)
	dst, err := os.OpenFile(pointer, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return goerr.Wrap(err, "create pointer copy", goerr.V("pointer", pointer))
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return goerr.Wrap(err, "copy pointer bytes", goerr.V("pointer", pointer))
	}
	if err := dst.Close(); err != nil {
		return goerr.Wrap(err, "close pointer copy", goerr.V("pointer", pointer))
	}
	return nil
}

// DetectPointer probes dir once and picks symlinks when the filesystem allows
// them, otherwise copies.
func DetectPointer(dir string) Pointer {
	probe, err := os.MkdirTemp(dir, ".pointer-probe-")
	if err != nil {
		return CopyPointer{}
	}
	defer func() { _ = os.RemoveAll(probe) }()

	target := filepath.Join(probe, "target")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		return CopyPointer{}
	}
	if err := os.Symlink("target", filepath.Join(probe, "link")); err != nil {
		return CopyPointer{}
	}
	if _, err := os.ReadFile(filepath.Join(probe, "link")); err != nil {
		return CopyPointer{}
	}
	return SymlinkPointer{}
}

// removePointer deletes an existing pointer, whether link or regular file.
func removePointer(pointer string) error {
	if _, err := os.Lstat(pointer); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return goerr.Wrap(err, "stat pointer", goerr.V("pointer", pointer))
	}
	if err := os.Remove(pointer); err != nil {
		return goerr.Wrap(err, "remove pointer", goerr.V("pointer", pointer))
	}
	return nil
}
