package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Standard default permissions
// File: u=rw, g=rw, o=r
const PermFile os.FileMode = 0664

// Dir:  u=rwx, g=rwx, o=rx (Requires +x to traverse)
const PermDir os.FileMode = 0775

// --- Extension Checks (String-based) ---

// IsXyz checks if the path has an XYZ geometry extension (.xyz).
// These carry the molecular coordinates xTB reads and writes.
func IsXyz(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".xyz"
}

// IsYaml checks if the path has a YAML extension (.yaml, .yml).
// Useful for per-server configuration files.
func IsYaml(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// IsScript checks if the path has a shell script extension (.sh).
func IsScript(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".sh"
}

// --- Filesystem Checks (OS-based) ---

// FileExists checks if a file exists and is not a directory.
// Any stat failure (ENOENT, ENOTDIR, EACCES) reports false.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDir checks if a directory exists, and creates it if it doesn't.
func EnsureDir(path string) error {
	if DirExists(path) {
		return nil
	}
	return os.MkdirAll(path, 0775)
}

// CopyFile copies src to dst, preserving the source's permission bits.
// dst may name a directory, in which case the source filename is kept.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("could not stat source %s: %w", src, err)
	}
	if info.IsDir() {
		return fmt.Errorf("source %s is a directory", src)
	}

	if DirExists(dst) {
		dst = filepath.Join(dst, filepath.Base(src))
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
