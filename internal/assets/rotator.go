package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/m-mizutani/goerr/v2"

	"homehub/internal/logging"
)

const (
	DefaultKeep   = 3
	TimestampFile = "current_timestamp.txt"
)

// Rotator owns the served and archive image directories.
//
// Layout:
//
//	{ServedDir}/{kind}_{token}.{ext}   served, one per run
//	{ServedDir}/{kind}.{ext}           stable pointer to the newest served copy
//	{ArchiveDir}/{kind}_{YYYYMMDD}.{ext}
//	{ServedDir}/current_timestamp.txt
type Rotator struct {
	ServedDir  string
	ArchiveDir string
	Ext        string
	Pointer    Pointer
}

// Stored lists the files written by one Store call.
type Stored struct {
	Kind    string
	Served  string
	Archive string
	Pointer string
}

// NewRotator creates both directories and selects the pointer variant once.
func NewRotator(servedDir, archiveDir, ext string) (*Rotator, error) {
	for _, dir := range []string{servedDir, archiveDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, goerr.Wrap(err, "ensure asset dir", goerr.V("dir", dir))
		}
	}
	if ext == "" {
		ext = "png"
	}
	return &Rotator{
		ServedDir:  servedDir,
		ArchiveDir: archiveDir,
		Ext:        strings.TrimPrefix(ext, "."),
		Pointer:    DetectPointer(servedDir),
	}, nil
}

// tokenGlob stands for the run token in served-file patterns.
const tokenGlob = "[0-9]*"

// KindPatterns returns the served-file glob for each kind.
func (r *Rotator) KindPatterns(kinds []string) []string {
	patterns := make([]string, 0, len(kinds))
	for _, k := range kinds {
		patterns = append(patterns, k+"_"+tokenGlob+"."+r.Ext)
	}
	return patterns
}

// tokenMatches drops names whose token part is not all digits, so "fact"
// never claims files of a kind such as "fact_2day". Patterns without
// tokenGlob are returned unchanged.
func tokenMatches(pattern string, names []string) []string {
	prefix, suffix, ok := strings.Cut(pattern, tokenGlob)
	if !ok {
		return names
	}
	kept := names[:0]
	for _, name := range names {
		token, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		token, ok = strings.CutSuffix(token, suffix)
		if !ok || !isDigits(token) {
			continue
		}
		kept = append(kept, name)
	}
	return kept
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Prune keeps the keep newest served files per pattern, ordering by name.
// Failures are logged per file and never abort the run. It returns the paths
// that were removed.
func (r *Rotator) Prune(ctx context.Context, patterns []string, keep int) []string {
	logger := logging.From(ctx)
	if keep < 0 {
		keep = 0
	}
	fsys := os.DirFS(r.ServedDir)
	var removed []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			logger.Warn("cleanup pattern failed", "pattern", pattern, "error", err)
			continue
		}
		matches = tokenMatches(pattern, matches)
		if len(matches) <= keep {
			continue
		}
		sort.Strings(matches)
		for _, name := range matches[:len(matches)-keep] {
			p := filepath.Join(r.ServedDir, filepath.FromSlash(name))
			if err := os.Remove(p); err != nil {
				logger.Warn("cleanup error", "file", name, "error", err)
				continue
			}
			logger.Info("cleaned up old image", "file", name)
			removed = append(removed, p)
		}
	}
	return removed
}

func (r *Rotator) servedPath(kind string, token RunToken) string {
	return filepath.Join(r.ServedDir, kind+"_"+token.String()+"."+r.Ext)
}

func (r *Rotator) archivePath(kind string, token RunToken) string {
	return filepath.Join(r.ArchiveDir, kind+"_"+token.Day()+"."+r.Ext)
}

// PointerPath is the stable name dashboards reference.
func (r *Rotator) PointerPath(kind string) string {
	return filepath.Join(r.ServedDir, kind+"."+r.Ext)
}

// Store writes the archive and served copies, then repoints the kind's
// pointer at the served copy.
func (r *Rotator) Store(ctx context.Context, kind string, token RunToken, data []byte) (Stored, error) {
	out := Stored{
		Kind:    kind,
		Served:  r.servedPath(kind, token),
		Archive: r.archivePath(kind, token),
		Pointer: r.PointerPath(kind),
	}
	if err := writeFileAtomic(out.Archive, data); err != nil {
		return Stored{}, goerr.Wrap(err, "write archive copy", goerr.V("kind", kind))
	}
	if err := writeFileAtomic(out.Served, data); err != nil {
		return Stored{}, goerr.Wrap(err, "write served copy", goerr.V("kind", kind))
	}
	if err := removePointer(out.Pointer); err != nil {
		return Stored{}, err
	}
	ptr := r.Pointer
	if ptr == nil {
		ptr = CopyPointer{}
	}
	if err := ptr.Point(out.Served, out.Pointer); err != nil {
		return Stored{}, goerr.Wrap(err, "publish pointer", goerr.V("kind", kind), goerr.V("via", ptr.Name()))
	}
	logging.From(ctx).Info("image saved",
		"pointer", filepath.Base(out.Pointer),
		"served", filepath.Base(out.Served),
		"via", ptr.Name())
	return out, nil
}

// Latest reads the bytes the kind's pointer currently resolves to.
func (r *Rotator) Latest(kind string) ([]byte, error) {
	data, err := os.ReadFile(r.PointerPath(kind))
	if err != nil {
		return nil, goerr.Wrap(err, "read latest image", goerr.V("kind", kind))
	}
	return data, nil
}

// WriteTimestamp publishes the run token for external readers.
func (r *Rotator) WriteTimestamp(token RunToken) (string, error) {
	p := filepath.Join(r.ServedDir, TimestampFile)
	if err := writeFileAtomic(p, []byte(token.String())); err != nil {
		return "", goerr.Wrap(err, "write timestamp file")
	}
	return p, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return goerr.Wrap(err, "create temp file", goerr.V("path", path))
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return goerr.Wrap(err, "write temp file", goerr.V("path", path))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return goerr.Wrap(err, "close temp file", goerr.V("path", path))
	}
	if err := os.Chmod(name, 0o644); err != nil {
		_ = os.Remove(name)
		return goerr.Wrap(err, "chmod temp file", goerr.V("path", path))
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return goerr.Wrap(err, "rename temp file", goerr.V("path", path))
	}
	return nil
}

// Placeholder returns a fixed PNG used when no image could be produced.
func Placeholder() []byte {
	const size = 64
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.RGBA{R: uint8(80 + x), G: uint8(60 + y), B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
