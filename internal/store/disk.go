package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskVault implements FileStore on a local directory. Files are stored as
// <key><ext> with the key a fresh UUID, so the key doubles as a
// traversal-safe identifier.
type DiskVault struct {
	dir     string
	baseURL string
}

func NewDiskVault(dir, baseURL string) (*DiskVault, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipt dir: %w", err)
	}
	return &DiskVault{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (v *DiskVault) UploadFile(ctx context.Context, name string, r io.Reader) (*FileRef, error) {
	key := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(name))

	f, err := os.Create(filepath.Join(v.dir, key+ext))
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("close file: %w", err)
	}

	return &FileRef{
		FileURL:  v.baseURL + "/api/receipts/" + key,
		FileName: filepath.Base(name),
		Key:      key,
	}, nil
}

func (v *DiskVault) OpenFile(ctx context.Context, key string) (io.ReadCloser, *StoredFile, error) {
	path, info, err := v.find(key)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open file: %w", err)
	}
	return f, info, nil
}

func (v *DiskVault) ListFiles(ctx context.Context) ([]StoredFile, error) {
	entries, err := os.ReadDir(v.dir)
	if err != nil {
		return nil, fmt.Errorf("read receipt dir: %w", err)
	}

	var files []StoredFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		name := e.Name()
		files = append(files, StoredFile{
			Key:        strings.TrimSuffix(name, filepath.Ext(name)),
			Name:       name,
			UploadedAt: info.ModTime(),
		})
	}

	return files, nil
}

func (v *DiskVault) RemoveFile(ctx context.Context, key string) error {
	path, _, err := v.find(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (v *DiskVault) find(key string) (string, *StoredFile, error) {
	// keys are always UUIDs; reject anything else before touching the FS
	if _, err := uuid.Parse(key); err != nil {
		return "", nil, ErrFileNotFound
	}

	matches, err := filepath.Glob(filepath.Join(v.dir, key+"*"))
	if err != nil || len(matches) == 0 {
		return "", nil, ErrFileNotFound
	}

	info, err := os.Stat(matches[0])
	if err != nil {
		return "", nil, ErrFileNotFound
	}

	return matches[0], &StoredFile{
		Key:        key,
		Name:       info.Name(),
		UploadedAt: info.ModTime(),
	}, nil
}
