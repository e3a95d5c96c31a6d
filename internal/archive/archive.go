// Package archive lists the contents of ZIP archives for preview.
package archive

import (
	"bytes"
	"errors"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/kk-code-lab/rpeek/internal/content"
)

// Entry is one item of an archive listing.
type Entry struct {
	Path  string
	Size  uint64
	IsDir bool
}

// Summary aggregates a listing.
type Summary struct {
	Files      int
	Dirs       int
	TotalBytes uint64
}

var errEmptyArchive = errors.New("empty archive")

// List parses the central directory of a ZIP archive held in data and
// returns its entries, directories first, then ordered by path. Parent
// directories that the archive only implies are listed as well. On failure
// no entries are returned.
func List(url string, data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, content.DecodeError(url, errEmptyArchive)
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, content.DecodeError(url, err)
	}

	byPath := make(map[string]Entry, len(reader.File))
	for _, f := range reader.File {
		name := f.Name
		if name == "" {
			continue
		}
		isDir := strings.HasSuffix(name, "/") || f.Mode().IsDir()
		if isDir && !strings.HasSuffix(name, "/") {
			name += "/"
		}
		entry := Entry{Path: name, IsDir: isDir}
		if !isDir {
			// Entries written without sizes in the central directory report 0.
			entry.Size = f.UncompressedSize64
		}
		byPath[name] = entry
		addParents(byPath, name)
	}

	entries := make([]Entry, 0, len(byPath))
	for _, e := range byPath {
		entries = append(entries, e)
	}
	Sort(entries)
	return entries, nil
}

func addParents(byPath map[string]Entry, name string) {
	trimmed := strings.TrimSuffix(name, "/")
	for {
		idx := strings.LastIndexByte(trimmed, '/')
		if idx <= 0 {
			return
		}
		trimmed = trimmed[:idx]
		dir := trimmed + "/"
		if _, ok := byPath[dir]; ok {
			return
		}
		byPath[dir] = Entry{Path: dir, IsDir: true}
	}
}

// Sort orders entries with directories first and byte-wise by path within
// each group.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Less(entries[i], entries[j])
	})
}

// Less reports whether a sorts before b in a listing.
func Less(a, b Entry) bool {
	if a.IsDir != b.IsDir {
		return a.IsDir
	}
	return a.Path < b.Path
}

// Summarize counts files, directories and uncompressed bytes.
func Summarize(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		if e.IsDir {
			s.Dirs++
			continue
		}
		s.Files++
		s.TotalBytes += e.Size
	}
	return s
}
