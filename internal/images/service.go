package images

import (
	"io"

	"github.com/JonMunkholm/LovedOnes/internal/core"
)

// ServiceStore exposes s as the image store of a core.Service. A nil s
// yields a nil interface, which disables uploads.
func ServiceStore(s *Store) core.ImageStore {
	if s == nil {
		return nil
	}
	return serviceStore{s}
}

type serviceStore struct {
	*Store
}

func (s serviceStore) Stage(filename string, r io.Reader) (core.StagedImage, error) {
	u, err := s.Store.Stage(filename, r)
	if err != nil {
		return nil, err
	}
	return u, nil
}
