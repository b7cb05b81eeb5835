package assets

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
)

func newTestRotator(t *testing.T, ptr Pointer) *Rotator {
	t.Helper()
	root := t.TempDir()
	r, err := NewRotator(filepath.Join(root, "www"), filepath.Join(root, "ai", "images"), "png")
	gt.NoError(t, err)
	if ptr != nil {
		r.Pointer = ptr
	}
	return r
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	gt.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestRunToken(t *testing.T) {
	token := NewRunToken(time.Unix(1700000000, 0).UTC())
	gt.Equal(t, token.String(), "1700000000")
	gt.Equal(t, token.Day(), "20231114")
}

func TestPruneKeepsNewestPerKind(t *testing.T) {
	r := newTestRotator(t, CopyPointer{})
	for _, ts := range []string{"1700000001", "1700000002", "1700000003", "1700000004", "1700000005"} {
		touch(t, r.ServedDir, "fact_"+ts+".png")
	}
	touch(t, r.ServedDir, "word_1700000001.png")
	touch(t, r.ServedDir, "fact.png")
	touch(t, r.ServedDir, TimestampFile)

	removed := r.Prune(context.Background(), r.KindPatterns([]string{"fact", "word", "poem"}), 3)
	gt.A(t, removed).Length(2)

	gt.Equal(t, listDir(t, r.ServedDir), []string{
		TimestampFile,
		"fact.png",
		"fact_1700000003.png",
		"fact_1700000004.png",
		"fact_1700000005.png",
		"word_1700000001.png",
	})
}

func TestPruneIgnoresPrefixCollidingKinds(t *testing.T) {
	r := newTestRotator(t, nil)
	ctx := context.Background()
	for _, ts := range []int64{1700000000, 1700086400} {
		token := NewRunToken(time.Unix(ts, 0).UTC())
		for _, kind := range []string{"fact", "fact_uk", "fact_2day"} {
			_, err := r.Store(ctx, kind, token, []byte(kind))
			gt.NoError(t, err)
		}
	}
	touch(t, r.ServedDir, "fact_1600000000.png")

	removed := r.Prune(ctx, r.KindPatterns([]string{"fact", "fact_uk", "fact_2day"}), 2)
	gt.Equal(t, removed, []string{filepath.Join(r.ServedDir, "fact_1600000000.png")})

	for _, kind := range []string{"fact", "fact_uk", "fact_2day"} {
		for _, ts := range []string{"1700000000", "1700086400"} {
			_, err := os.Stat(filepath.Join(r.ServedDir, kind+"_"+ts+".png"))
			gt.NoError(t, err)
		}
		latest, err := r.Latest(kind)
		gt.NoError(t, err)
		gt.Equal(t, string(latest), kind)
	}
}

func TestPruneContinuesOnError(t *testing.T) {
	r := newTestRotator(t, CopyPointer{})
	for _, ts := range []string{"1", "2", "3", "4"} {
		touch(t, r.ServedDir, "quote_170000000"+ts+".png")
	}
	// a directory matching the pattern cannot be removed while non-empty
	bad := filepath.Join(r.ServedDir, "quote_1600000000.png")
	gt.NoError(t, os.Mkdir(bad, 0o755))
	touch(t, bad, "inner")

	removed := r.Prune(context.Background(), []string{"quote_*.png"}, 1)
	gt.A(t, removed).Length(3)
	_, err := os.Stat(filepath.Join(r.ServedDir, "quote_1700000004.png"))
	gt.NoError(t, err)
}

func TestStoreLayout(t *testing.T) {
	for _, ptr := range []Pointer{SymlinkPointer{}, CopyPointer{}} {
		t.Run(ptr.Name(), func(t *testing.T) {
			if _, ok := ptr.(SymlinkPointer); ok {
				if _, isLink := DetectPointer(t.TempDir()).(SymlinkPointer); !isLink {
					t.Skip("symlinks unsupported")
				}
			}
			r := newTestRotator(t, ptr)
			token := NewRunToken(time.Unix(1700000000, 0).UTC())
			data := []byte("png-bytes")

			stored, err := r.Store(context.Background(), "fact", token, data)
			gt.NoError(t, err)
			gt.Equal(t, filepath.Base(stored.Served), "fact_1700000000.png")
			gt.Equal(t, filepath.Base(stored.Archive), "fact_20231114.png")
			gt.Equal(t, filepath.Base(stored.Pointer), "fact.png")

			for _, p := range []string{stored.Served, stored.Archive, stored.Pointer} {
				got, err := os.ReadFile(p)
				gt.NoError(t, err)
				gt.Equal(t, got, data)
			}
		})
	}
}

func TestStoreRepointsExistingPointer(t *testing.T) {
	r := newTestRotator(t, nil)
	ctx := context.Background()

	_, err := r.Store(ctx, "poem", NewRunToken(time.Unix(1700000000, 0).UTC()), []byte("first"))
	gt.NoError(t, err)
	_, err = r.Store(ctx, "poem", NewRunToken(time.Unix(1700086400, 0).UTC()), []byte("second"))
	gt.NoError(t, err)

	latest, err := r.Latest("poem")
	gt.NoError(t, err)
	gt.Equal(t, latest, []byte("second"))

	served := listDir(t, r.ServedDir)
	gt.Equal(t, served, []string{"poem.png", "poem_1700000000.png", "poem_1700086400.png"})
}

func TestStoreReplacesRegularFilePointer(t *testing.T) {
	r := newTestRotator(t, nil)
	touch(t, r.ServedDir, "joke.png")

	_, err := r.Store(context.Background(), "joke", NewRunToken(time.Unix(1700000000, 0).UTC()), []byte("new"))
	gt.NoError(t, err)
	latest, err := r.Latest("joke")
	gt.NoError(t, err)
	gt.Equal(t, latest, []byte("new"))
}

func TestWriteTimestamp(t *testing.T) {
	r := newTestRotator(t, nil)
	p, err := r.WriteTimestamp(NewRunToken(time.Unix(1700000000, 0)))
	gt.NoError(t, err)
	data, err := os.ReadFile(p)
	gt.NoError(t, err)
	gt.Equal(t, string(data), "1700000000")
}

func TestPlaceholderIsDeterministicPNG(t *testing.T) {
	a, b := Placeholder(), Placeholder()
	gt.True(t, bytes.Equal(a, b))
	_, err := png.Decode(bytes.NewReader(a))
	gt.NoError(t, err)
}
