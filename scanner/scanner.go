package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type FileInfo struct {
	Path string
	Size int64
}

// Scanner lists the source files of a directory tree.
type Scanner struct {
	rootDir    string
	extensions []string
	skip       func(path string) bool
	hidden     bool
}

// New returns a scanner for files under rootDir whose extension is one
// of extensions, compared case-insensitively. No extensions selects
// every file.
func New(rootDir string, extensions ...string) *Scanner {
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Skip excludes the paths for which fn returns true. A skipped directory
// is not descended into.
func (s *Scanner) Skip(fn func(path string) bool) *Scanner {
	s.skip = fn
	return s
}

// IncludeHidden makes the scanner descend into directories whose name
// starts with a dot, such as .git, which are skipped by default.
func (s *Scanner) IncludeHidden() *Scanner {
	s.hidden = true
	return s
}

// Scan walks the tree and returns the matching files sorted by path.
// A rootDir naming a file returns that file if it matches.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != s.rootDir && s.skipDir(path, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.isTargetFile(path) || (s.skip != nil && s.skip(path)) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (s *Scanner) skipDir(path, name string) bool {
	if !s.hidden && strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	return s.skip != nil && s.skip(path)
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, targetExt := range s.extensions {
		if ext == strings.ToLower(targetExt) {
			return true
		}
	}
	return false
}

// IsDir reports whether path names an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
