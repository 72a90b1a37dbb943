package check

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Scanner finds proof documents below a directory. Hidden directories
// are skipped.
type Scanner struct {
	rootDir    string
	extensions []string
}

// NewScanner scans rootDir for files with the given extensions, or for
// .yaml and .yml files when none are given.
func NewScanner(rootDir string, extensions ...string) *Scanner {
	if len(extensions) == 0 {
		extensions = []string{".yaml", ".yml"}
	}
	return &Scanner{rootDir: rootDir, extensions: extensions}
}

// Scan returns the matching files in lexical order. The configuration
// file is never a document.
func (s *Scanner) Scan() ([]string, error) {
	var files []string
	err := s.walk(func(path string, d fs.DirEntry) error {
		if !d.IsDir() && s.isTargetFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// Dirs returns rootDir and every directory below it.
func (s *Scanner) Dirs() ([]string, error) {
	var dirs []string
	err := s.walk(func(path string, d fs.DirEntry) error {
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

func (s *Scanner) walk(visit func(string, fs.DirEntry) error) error {
	return filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != s.rootDir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return visit(path, d)
	})
}

func (s *Scanner) isTargetFile(path string) bool {
	if filepath.Base(path) == DefaultConfigFile {
		return false
	}
	ext := filepath.Ext(path)
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}
