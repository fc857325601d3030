package dirsync

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

type walkFunc func(string) (string, KeySet, error)

// ListLocalFiles walks directory and returns its parent as the base path along
// with every regular file below it, relative to that base. Keys use '/' and
// start with the directory's own name, so "/data/feed/sub/b.csv" walked from
// "/data/feed" yields base "/data" and key "feed/sub/b.csv".
//
// Symlinks and special files are skipped. Entries that cannot be read are
// skipped with a warning; only a bad root fails the walk.
func ListLocalFiles(directory string) (string, KeySet, error) {
	if strings.TrimSpace(directory) == "" {
		return "", nil, fmt.Errorf("%w: directory is empty", ErrLocalWalk)
	}
	dirPath := strings.TrimRight(directory, "/")
	if dirPath == "" {
		dirPath = string(filepath.Separator)
	}
	dirPath = filepath.Clean(dirPath)
	switch filepath.Base(dirPath) {
	case ".", "..", string(filepath.Separator):
		abs, absErr := filepath.Abs(dirPath)
		if absErr != nil {
			return "", nil, fmt.Errorf("%w: %s: %v", ErrLocalWalk, directory, absErr)
		}
		dirPath = abs
	}
	if dirPath == string(filepath.Separator) {
		return "", nil, fmt.Errorf("%w: refusing to sync the filesystem root", ErrLocalWalk)
	}

	base := filepath.Dir(dirPath)
	prefix := filepath.Base(dirPath)

	rootInfo, statErr := os.Stat(dirPath)
	if statErr != nil {
		return base, nil, fmt.Errorf("%w: %v", ErrLocalWalk, statErr)
	}
	if !rootInfo.IsDir() {
		return base, nil, fmt.Errorf("%w: %s is not a directory", ErrLocalWalk, dirPath)
	}

	// a symlinked root is followed, nothing below it is
	walkRoot := dirPath
	if linkInfo, err := os.Lstat(dirPath); err == nil && linkInfo.Mode()&fs.ModeSymlink != 0 {
		resolved, resolveErr := filepath.EvalSymlinks(dirPath)
		if resolveErr != nil {
			return base, nil, fmt.Errorf("%w: %v", ErrLocalWalk, resolveErr)
		}
		walkRoot = resolved
	}

	files := NewKeySet()
	walkErr := filepath.WalkDir(walkRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == walkRoot {
				return err
			}
			log.Warn(fmt.Sprintf("Skipping unreadable path %s: %s", p, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			log.Debug(fmt.Sprintf("Skipping %s, not a regular file (%s)", p, d.Type()))
			return nil
		}

		rel, relErr := filepath.Rel(walkRoot, p)
		if relErr != nil {
			log.Warn(fmt.Sprintf("Skipping %s: %s", p, relErr))
			return nil
		}
		files.Add(path.Join(prefix, filepath.ToSlash(rel)))

		return nil
	})
	if walkErr != nil {
		return base, nil, fmt.Errorf("%w: %v", ErrLocalWalk, walkErr)
	}

	return base, files, nil
}
