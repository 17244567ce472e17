package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// AppendLine appends line plus a newline to path, creating the file if
// needed, and syncs before returning so the entry survives a crash.
func AppendLine(path, line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return fmt.Errorf("append %s: line contains a newline", path)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.WriteString(line + "\n"); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Exists reports whether path names an existing regular file.
func Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// RemoveQuiet deletes path, ignoring a missing file. Other errors are returned
// so callers may log them.
func RemoveQuiet(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
