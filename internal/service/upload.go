package service

import (
	"errors"
	"io"
)

var ErrEmptyFilename = errors.New("no file selected")

type UploadService struct {
	files FileStore
}

func NewUploadService(files FileStore) *UploadService {
	return &UploadService{files: files}
}

// SaveUpload stores r under a sanitized version of filename and returns the
// name actually used. Size and type are not checked.
func (s *UploadService) SaveUpload(filename string, r io.Reader) (string, error) {
	if filename == "" {
		return "", ErrEmptyFilename
	}
	return s.files.Save(filename, r)
}
