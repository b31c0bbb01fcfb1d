package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// envDirVar overrides the output directory when set.
const envDirVar = "DRISHTI_MODELS_DIR"

// storage handles all local filesystem operations.
type storage struct {
	// dir is the output directory holding both final artifacts.
	dir string

	// workDir is where stray loader/exporter output may appear.
	workDir string
}

// newStorage creates a storage instance for the given configuration.
// Directory priority: env var > Config.Dir > DefaultDir. The directory is
// not created here; Acquire creates it so that Verify stays side-effect free.
func newStorage(cfg Config) *storage {
	dir := cfg.Dir
	if envDir := os.Getenv(envDirVar); envDir != "" {
		dir = envDir
	}
	if dir == "" {
		dir = DefaultDir
	}

	workDir := cfg.WorkDir
	if workDir == "" {
		workDir = "."
	}

	return &storage{dir: dir, workDir: workDir}
}

// ensureDir creates the output directory and all parents if absent.
// Succeeds silently when the directory already exists.
func (s *storage) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %v", ErrStorageError, s.dir, err)
	}
	return nil
}

// artifactPath returns the final path of a file within the output directory.
func (s *storage) artifactPath(file string) string {
	return filepath.Join(s.dir, file)
}

// workPath returns the path a stray file would have in the working directory.
func (s *storage) workPath(file string) string {
	return filepath.Join(s.workDir, file)
}

// fileStatus stats path and reports whether a regular file exists there,
// and its size when it does.
func (s *storage) fileStatus(path string) (size int64, found bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return 0, false
	}
	return info.Size(), true
}

// moveInto relocates src to the named file in the output directory,
// replacing any existing file. Falls back to copy-and-remove when the
// rename crosses filesystems.
func (s *storage) moveInto(src, file string) error {
	dst := s.artifactPath(file)
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: failed to move %s: %v", ErrStorageError, src, err)
	}
	defer in.Close()

	tmp := dst + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", ErrStorageError, tmp, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: failed to copy %s: %v", ErrStorageError, src, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: failed to write %s: %v", ErrStorageError, tmp, err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: failed to rename %s: %v", ErrStorageError, tmp, err)
	}

	os.Remove(src) // best effort, the artifact is already in place
	return nil
}

// lockPath returns the cross-process acquisition lock file for this output
// directory. The lock lives in the system temp directory so the output
// directory holds nothing but the artifacts themselves.
func (s *storage) lockPath() string {
	abs, err := filepath.Abs(s.dir)
	if err != nil {
		abs = s.dir
	}
	h := sha256.Sum256([]byte(abs))
	return filepath.Join(os.TempDir(), "drishti-models-"+hex.EncodeToString(h[:8])+".lock")
}

// checksumFile returns the lowercase hex SHA-256 of the file at path.
func checksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open %s: %v", ErrStorageError, path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("%w: failed to read %s: %v", ErrStorageError, path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
