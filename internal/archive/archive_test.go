package archive

import (
	"bytes"
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/kk-code-lab/rpeek/internal/content"
)

type zipItem struct {
	name string
	body string
}

func buildZip(t *testing.T, items ...zipItem) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, item := range items {
		f, err := w.Create(item.name)
		if err != nil {
			t.Fatalf("create %s: %v", item.name, err)
		}
		if item.body != "" {
			if _, err := f.Write([]byte(item.body)); err != nil {
				t.Fatalf("write %s: %v", item.name, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func paths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func TestListOrdersDirectoriesFirst(t *testing.T) {
	data := buildZip(t,
		zipItem{name: "b.txt", body: "0123456789"},
		zipItem{name: "a/"},
		zipItem{name: "a/c.txt", body: "12345"},
	)

	entries, err := List("https://x/archive.zip", data)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []Entry{
		{Path: "a/", IsDir: true},
		{Path: "a/c.txt", Size: 5},
		{Path: "b.txt", Size: 10},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("List returned %+v, want %+v", entries, want)
	}
}

func TestListAddsImpliedDirectories(t *testing.T) {
	data := buildZip(t,
		zipItem{name: "src/pkg/main.go", body: "package main"},
		zipItem{name: "README", body: "hi"},
	)

	entries, err := List("", data)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	got := paths(entries)
	want := []string{"src/", "src/pkg/", "README", "src/pkg/main.go"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
}

func TestListIsDeterministic(t *testing.T) {
	data := buildZip(t,
		zipItem{name: "z.txt", body: "z"},
		zipItem{name: "m/"},
		zipItem{name: "A.txt", body: "A"},
		zipItem{name: "m/n.txt", body: "nn"},
		zipItem{name: "b/"},
	)

	first, err := List("", data)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := List("", data)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("listing changed between runs: %v vs %v", paths(first), paths(again))
		}
	}
}

func TestListRejectsInvalidArchive(t *testing.T) {
	entries, err := List("https://x/broken.zip", []byte("definitely not a zip"))
	if err == nil {
		t.Fatal("expected error for invalid archive")
	}
	if entries != nil {
		t.Fatalf("expected no entries on failure, got %v", entries)
	}
	if !errors.Is(err, content.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestListRejectsEmptyBuffer(t *testing.T) {
	if _, err := List("", nil); !errors.Is(err, content.ErrDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestSortLawHoldsForEveryPair(t *testing.T) {
	entries := []Entry{
		{Path: "b.txt"}, {Path: "a/", IsDir: true}, {Path: "Z/", IsDir: true},
		{Path: "a/c.txt"}, {Path: "é.txt"}, {Path: "B.txt"}, {Path: "a/b/", IsDir: true},
	}
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		rng.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
		Sort(entries)
		for i := range entries {
			for j := i + 1; j < len(entries); j++ {
				a, b := entries[i], entries[j]
				if a.IsDir != b.IsDir {
					if !a.IsDir {
						t.Fatalf("file %q sorted before directory %q", a.Path, b.Path)
					}
					continue
				}
				if a.Path > b.Path {
					t.Fatalf("%q sorted before %q", a.Path, b.Path)
				}
			}
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Entry{
		{Path: "a/", IsDir: true},
		{Path: "a/c.txt", Size: 5},
		{Path: "b.txt", Size: 10},
	})
	if s.Dirs != 1 || s.Files != 2 || s.TotalBytes != 15 {
		t.Fatalf("unexpected summary %+v", s)
	}
}
