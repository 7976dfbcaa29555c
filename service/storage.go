package service

import (
	"os"
	"path/filepath"
	"strings"
)

// fileTokenStorage keeps the admin token in a single file. It is the only
// state that survives a console restart.
type fileTokenStorage struct {
	path string
}

func NewFileTokenStorage(path string) *fileTokenStorage {
	return &fileTokenStorage{path: path}
}

func (f *fileTokenStorage) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (f *fileTokenStorage) Store(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(token), 0600)
}

func (f *fileTokenStorage) Clear() error {
	err := os.Remove(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
