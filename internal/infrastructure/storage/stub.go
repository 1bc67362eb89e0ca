package storage

import (
	"context"
	"errors"
	"time"
)

// StubImageStorage serves placeholder URLs when no object storage is
// configured. Local development only.
type StubImageStorage struct {
	BaseURL string
}

var _ ImageStorage = (*StubImageStorage)(nil)

func NewStubImageStorage() *StubImageStorage {
	return &StubImageStorage{BaseURL: "https://images.invalid"}
}

func (s *StubImageStorage) GenerateUploadURL(_ context.Context, key, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + key, expiresAt, nil
}

func (s *StubImageStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/" + key, expiresAt, nil
}

func (s *StubImageStorage) Upload(_ context.Context, key string, _ []byte, _ string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// ObjectExists reports true so the image confirmation flow works in
// development.
func (s *StubImageStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}
	return true, nil
}

func (s *StubImageStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	return nil
}
