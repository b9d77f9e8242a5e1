// Package testutil contains common utility functions for unit tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"golang.org/x/tools/txtar"
)

var seq int64

// Root returns a fresh mem:// URL unique to the calling test.
func Root(t testing.TB) string {
	n := atomic.AddInt64(&seq, 1)
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return fmt.Sprintf("mem://localhost/%s-%d", name, n)
}

// Archive parses an inline txtar archive.
func Archive(data string) *txtar.Archive {
	return txtar.Parse([]byte(data))
}

// ArchiveFile parses the txtar archive at path, failing the test on
// error.
func ArchiveFile(t testing.TB, path string) *txtar.Archive {
	t.Helper()
	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return ar
}

// Load uploads every file of the archive below root and returns the
// URL of each file, keyed by its name in the archive.
func Load(t testing.TB, fs afs.Service, root string, ar *txtar.Archive) map[string]string {
	t.Helper()
	ctx := context.Background()
	urls := make(map[string]string, len(ar.Files))
	for _, f := range ar.Files {
		URL := url.Join(root, f.Name)
		if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader(string(f.Data))); err != nil {
			t.Fatalf("upload %s: %v", URL, err)
		}
		urls[f.Name] = URL
	}
	return urls
}

// Read downloads URL, failing the test on error.
func Read(t testing.TB, fs afs.Service, URL string) string {
	t.Helper()
	data, err := fs.DownloadWithURL(context.Background(), URL)
	if err != nil {
		t.Fatalf("download %s: %v", URL, err)
	}
	return string(data)
}

// Expected returns the files of the archive whose names have the
// given suffix, keyed by name.
func Expected(ar *txtar.Archive, suffix string) map[string]string {
	result := make(map[string]string)
	for _, f := range ar.Files {
		if strings.HasSuffix(f.Name, suffix) {
			result[f.Name] = string(f.Data)
		}
	}
	return result
}

// Diff returns a readable rendering of the differences between want
// and got, or the empty string if they are equal.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	return dmp.DiffPrettyText(diffs)
}

// Golden compares got against want, reporting a diff on mismatch.
func Golden(t testing.TB, name, want, got string) {
	t.Helper()
	if d := Diff(want, got); d != "" {
		t.Errorf("%s differs from expected output:\n%s", name, d)
	}
}
