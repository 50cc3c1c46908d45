package store

import (
	"crypto/sha256"
	"errors"
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies src to dest, creating parent directories as needed. The
// source's modification time is carried over so imported documents keep their
// original timestamps.
func CopyFile(src string, dest string) error {
	src = filepath.Clean(src)
	dest = filepath.Clean(dest)
	if src == "" || dest == "" {
		return errors.New("copy file: missing src/dest")
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if st, err := os.Stat(src); err == nil {
		// Best-effort; a filesystem that refuses Chtimes still has a valid copy.
		_ = os.Chtimes(dest, st.ModTime(), st.ModTime())
	}
	return nil
}

// CopyTree recursively copies the directory src to dest. dest must not exist.
func CopyTree(src string, dest string) error {
	src = filepath.Clean(src)
	dest = filepath.Clean(dest)
	if _, err := os.Stat(dest); err == nil {
		return errors.New("copy tree: destination already exists")
	}
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return CopyFile(path, target)
	})
}

// filesIdentical reports whether two files have the same content, compared by
// SHA-256 digest of the full bytes. Any read failure counts as "different" so a
// broken file never suppresses a copy.
func filesIdentical(a, b string) bool {
	ha, err := hashFile(a)
	if err != nil {
		return false
	}
	hb, err := hashFile(b)
	if err != nil {
		return false
	}
	return ha == hb
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return string(h.Sum(nil)), nil
}
