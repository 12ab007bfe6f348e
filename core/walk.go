package core

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// WalkTree yields the absolute path of every file below root, in lexical order.
// Nothing is filtered here. A missing root, or a root that is not a directory,
// yields nothing. Unreadable subdirectories are skipped along with their contents.
// Symbolic links are yielded as files unless they resolve to a directory, in which
// case they are neither yielded nor followed.
//
// The returned sequence may be ranged over any number of times; each pass walks
// the tree afresh.
func WalkTree(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		base, ok := resolveRoot(root)
		if !ok {
			return
		}
		info, err := os.Stat(base)
		if err != nil || !info.IsDir() {
			return
		}

		_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if d.Type()&fs.ModeSymlink != 0 {
				if target, err := os.Stat(path); err == nil && target.IsDir() {
					return nil
				}
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// resolveRoot makes root absolute with symlinks evaluated. It reports false
// when the path cannot be resolved, which includes a missing path.
func resolveRoot(root string) (string, bool) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", false
	}
	return resolved, true
}
