// Package storage keeps uploaded submission files on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Kind string

const (
	KindFile  Kind = "files"
	KindVideo Kind = "videos"
)

//nolint:gochecknoglobals //allowed upload extensions
var allowedExtensions = map[Kind][]string{
	KindFile:  {"pdf", "doc", "docx", "txt", "zip"},
	KindVideo: {"mp4", "webm", "mov"},
}

var ErrInvalidPath = errors.New("path escapes upload directory")

type Storage struct {
	root string
}

func New(root string) (*Storage, error) {
	for kind := range allowedExtensions {
		err := os.MkdirAll(filepath.Join(root, string(kind)), 0o750) //nolint:mnd //permissions
		if err != nil {
			return nil, fmt.Errorf("creating upload directory: %w", err)
		}
	}

	return &Storage{root: root}, nil
}

// IsAllowed reports whether filename has an extension accepted for kind.
func IsAllowed(kind Kind, filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}

	for _, allowed := range allowedExtensions[kind] {
		if ext == allowed {
			return true
		}
	}

	return false
}

func AllowedExtensions(kind Kind) []string {
	return allowedExtensions[kind]
}

// Save writes content under a random name and returns the path relative to
// the upload root. Nothing is left behind when writing fails.
func (s *Storage) Save(kind Kind, filename string, content io.Reader) (string, error) {
	relative := filepath.Join(
		string(kind),
		uuid.NewString()+strings.ToLower(filepath.Ext(filename)),
	)

	path := filepath.Join(s.root, relative)

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}

	_, err = io.Copy(file, content)
	err = errors.Join(err, file.Close())
	if err != nil {
		// a partial upload is never referenced, keep it off the disk
		return "", errors.Join(err, os.Remove(path))
	}

	return filepath.ToSlash(relative), nil
}

func (s *Storage) Open(relative string) (*os.File, error) {
	path, err := s.resolve(relative)
	if err != nil {
		return nil, err
	}

	return os.Open(path)
}

// Delete removes a stored file. Missing files are not an error.
func (s *Storage) Delete(relative string) error {
	if relative == "" {
		return nil
	}

	path, err := s.resolve(relative)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

func (s *Storage) resolve(relative string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(relative))

	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}

	return path, nil
}
