package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// FileStorage persists uploaded artifacts (activity documents, generated
// contracts). The local implementation writes under a single base directory;
// swapping in an object store only requires a new implementation here.
type FileStorage interface {
	UploadFile(file multipart.File, fileName string) (string, error)
	DownloadFile(fileName string) (io.ReadCloser, error)
	DeleteFile(fileName string) error
}

type LocalFileStorage struct {
	basePath string
}

func NewLocalFileStorage(basePath string) *LocalFileStorage {
	return &LocalFileStorage{basePath: basePath}
}

func (s *LocalFileStorage) UploadFile(file multipart.File, fileName string) (string, error) {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(s.basePath, fileName)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file content: %w", err)
	}

	return path, nil
}

func (s *LocalFileStorage) DownloadFile(fileName string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.basePath, fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// DeleteFile is a no-op when the file is already gone.
func (s *LocalFileStorage) DeleteFile(fileName string) error {
	path := filepath.Join(s.basePath, fileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
