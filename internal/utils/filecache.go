package utils

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// fileCacheSize bounds each cache. Route discovery revisits files when
// modules import packages that were already parsed, so the working set is
// small; the bound only guards against degenerate trees.
const fileCacheSize = 512

// cacheEntry pairs a cached value with the file identity observed when the
// value was stored. Entries are revalidated on every hit.
type cacheEntry[T any] struct {
	value   T
	modTime time.Time
	size    int64
}

func (e cacheEntry[T]) fresh(info os.FileInfo) bool {
	return e.size == info.Size() && e.modTime.Equal(info.ModTime())
}

// FileReader parses Go source files with position information and caches
// both parsed ASTs and raw contents keyed by path. A cached entry is reused
// only while the file's size and modification time are unchanged.
type FileReader struct {
	fileSet  *token.FileSet
	asts     *lru.Cache[string, cacheEntry[*ast.File]]
	contents *lru.Cache[string, cacheEntry[[]byte]]
}

// NewFileReader creates a FileReader with empty caches.
func NewFileReader() (*FileReader, error) {
	asts, err := lru.New[string, cacheEntry[*ast.File]](fileCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating AST cache: %w", err)
	}
	contents, err := lru.New[string, cacheEntry[[]byte]](fileCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating content cache: %w", err)
	}
	return &FileReader{
		fileSet:  token.NewFileSet(),
		asts:     asts,
		contents: contents,
	}, nil
}

// FileSet returns the position set shared by every file this reader parses.
func (fr *FileReader) FileSet() *token.FileSet {
	return fr.fileSet
}

// ParseGoFile parses the Go source file at path, comments included. The
// parsed AST is cached; a stale entry is re-parsed transparently.
func (fr *FileReader) ParseGoFile(path string) (*ast.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if entry, ok := fr.asts.Get(path); ok && entry.fresh(info) {
		return entry.value, nil
	}

	file, err := parser.ParseFile(fr.fileSet, path, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	fr.asts.Add(path, cacheEntry[*ast.File]{
		value:   file,
		modTime: info.ModTime(),
		size:    info.Size(),
	})
	return file, nil
}

// ReadFile returns the contents of path, cached. Callers must not mutate
// the returned slice.
func (fr *FileReader) ReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if entry, ok := fr.contents.Get(path); ok && entry.fresh(info) {
		return entry.value, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fr.contents.Add(path, cacheEntry[[]byte]{
		value:   data,
		modTime: info.ModTime(),
		size:    info.Size(),
	})
	return data, nil
}

// Purge drops every cached entry. Position information in the shared
// FileSet is retained.
func (fr *FileReader) Purge() {
	fr.asts.Purge()
	fr.contents.Purge()
}
