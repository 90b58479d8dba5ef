package submit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// Move relocates src into destDir under the same base name, replacing any
// file already there, and returns the new path. On failure src is left in
// place.
func Move(src, destDir string) (string, error) {
	dest := filepath.Join(destDir, filepath.Base(src))

	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("move %s: %w", src, err)
	}
	if destInfo, err := os.Stat(dest); err == nil {
		if destInfo.IsDir() {
			return "", fmt.Errorf("move %s: destination %s is a directory", src, dest)
		}
		if os.SameFile(srcInfo, destInfo) {
			return "", fmt.Errorf("move %s: source and destination are the same file", src)
		}
	}

	err = os.Rename(src, dest)
	if err == nil {
		return dest, nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return "", fmt.Errorf("move %s to %s: %w", src, destDir, err)
	}

	// Different filesystems: copy next to the destination, then swap it in.
	if err := copyInto(src, dest, srcInfo.Mode().Perm()); err != nil {
		return "", fmt.Errorf("move %s to %s: %w", src, destDir, err)
	}
	if err := os.Remove(src); err != nil {
		return "", fmt.Errorf("remove %s after copy to %s: %w", src, dest, err)
	}
	return dest, nil
}

func copyInto(src, dest string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".nzbpost-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		cleanup()
		return err
	}
	return nil
}
