package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Local stores files below a root directory.
type Local struct {
	root    string
	baseURL string
}

// NewLocal resolves root against the working directory.
func NewLocal(root, baseURL string) (*Local, error) {
	if root == "" {
		root = "storage"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage/local: resolve %s: %w", root, err)
	}
	return &Local{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// abs maps p below the root. Paths that would escape the root are rejected.
func (d *Local) abs(p string) (string, error) {
	clean := path.Clean("/" + p)
	if clean == "/" {
		return "", fmt.Errorf("storage/local: empty path")
	}
	return filepath.Join(d.root, filepath.FromSlash(clean)), nil
}

func (d *Local) Put(_ context.Context, p string, r io.Reader) error {
	full, err := d.abs(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}

	// Write to a temp file and rename so readers never see a partial file.
	tmp, err := os.CreateTemp(filepath.Dir(full), ".put-*")
	if err != nil {
		return fmt.Errorf("storage/local: create %s: %w", p, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("storage/local: write %s: %w", p, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage/local: close %s: %w", p, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("storage/local: rename %s: %w", p, err)
	}
	return nil
}

func (d *Local) Get(_ context.Context, p string) ([]byte, error) {
	full, err := d.abs(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage/local: get %s: %w", p, ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: get %s: %w", p, err)
	}
	return data, nil
}

func (d *Local) Exists(_ context.Context, p string) (bool, error) {
	full, err := d.abs(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (d *Local) Delete(_ context.Context, p string) error {
	full, err := d.abs(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", p, err)
	}
	return nil
}

func (d *Local) Files(_ context.Context, directory string) ([]string, error) {
	dir := filepath.Join(d.root, filepath.FromSlash(path.Clean("/"+directory)))
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: files %s: %w", directory, err)
	}

	prefix := strings.Trim(directory, "/")
	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, path.Join(prefix, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

func (d *Local) URL(p string) string {
	return d.baseURL + "/" + strings.TrimLeft(p, "/")
}
