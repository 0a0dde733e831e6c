package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/JonMunkholm/LovedOnes/internal/logging"
)

// ErrImagesDisabled is returned when a photo is submitted but the service
// has no image store.
var ErrImagesDisabled = errors.New("image uploads are disabled")

// ImageStore writes and removes photo files referenced by records.
type ImageStore interface {
	Stage(filename string, r io.Reader) (StagedImage, error)
	Remove(path string) error
}

// StagedImage is an accepted upload that has not replaced anything yet.
type StagedImage interface {
	Path() string
	Commit() error
	Discard()
}

// ImageUpload is a photo submitted alongside a new record.
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

// ServiceOptions tunes Service behaviour.
type ServiceOptions struct {
	// RemoveOrphanImages deletes a photo once no record references it.
	RemoveOrphanImages bool
}

// Service is the entry point used by the web server and the CLI.
// It validates input before anything reaches the Store.
type Service struct {
	store  *Store
	images ImageStore
	opts   ServiceOptions
}

// NewService creates a Service. images may be nil when photo uploads are
// not needed.
func NewService(store *Store, images ImageStore, opts ServiceOptions) *Service {
	return &Service{
		store:  store,
		images: images,
		opts:   opts,
	}
}

// Store returns the underlying record store.
func (s *Service) Store() *Store {
	return s.store
}

// LoadWarning returns the error from the last load, for display.
func (s *Service) LoadWarning() error {
	return s.store.LoadWarning()
}

// Count returns the number of stored records.
func (s *Service) Count() int {
	return s.store.Snapshot().Len()
}

// ListRecords returns the records whose name contains query.
func (s *Service) ListRecords(query string) Table {
	return s.store.Snapshot().Search(query)
}

// GetRecord returns a record by ID.
func (s *Service) GetRecord(id string) (Record, bool) {
	return s.store.Get(id)
}

// AddRecord validates in, stages the optional photo, appends and saves the
// record, then moves the photo into place. Nothing in the image directory
// changes unless the record was saved.
func (s *Service) AddRecord(ctx context.Context, in RecordInput, img *ImageUpload) (Record, error) {
	in, err := ValidateInput(in)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		Name:        in.Name,
		CurrentDate: in.CurrentDate,
		SpecialDate: in.SpecialDate,
	}

	var staged StagedImage
	if img != nil && img.Filename != "" {
		if s.images == nil {
			return Record{}, fmt.Errorf("save image %s: %w", img.Filename, ErrImagesDisabled)
		}
		staged, err = s.images.Stage(img.Filename, img.Reader)
		if err != nil {
			return Record{}, fmt.Errorf("save image %s: %w", img.Filename, err)
		}
		rec.ImagePath = staged.Path()
	}

	rec, err = s.store.Append(ctx, rec)
	if err != nil {
		if staged != nil {
			staged.Discard()
		}
		return Record{}, err
	}

	if staged != nil {
		if err := staged.Commit(); err != nil {
			staged.Discard()
			if _, derr := s.store.Delete(ctx, rec.ID); derr != nil {
				s.logger(ctx).Error("failed to roll back record after image error",
					"id", rec.ID, "error", derr)
			}
			return Record{}, fmt.Errorf("save image %s: %w", img.Filename, err)
		}
	}

	s.logger(ctx).Info("record added",
		"id", rec.ID,
		"has_image", rec.HasImage(),
	)
	return rec, nil
}

// DeleteRecord removes a record by ID. With RemoveOrphanImages set, its
// photo is deleted when no remaining record uses it.
func (s *Service) DeleteRecord(ctx context.Context, id string) (Record, error) {
	rec, err := s.store.Delete(ctx, id)
	if err != nil {
		return Record{}, err
	}
	s.afterDelete(ctx, rec)
	return rec, nil
}

// DeleteRecordAt removes the record at a list position.
func (s *Service) DeleteRecordAt(ctx context.Context, index int) (Record, error) {
	rec, err := s.store.DeleteAt(ctx, index)
	if err != nil {
		return Record{}, err
	}
	s.afterDelete(ctx, rec)
	return rec, nil
}

func (s *Service) afterDelete(ctx context.Context, rec Record) {
	logger := s.logger(ctx)
	logger.Info("record deleted", "id", rec.ID)

	if !s.opts.RemoveOrphanImages || !rec.HasImage() || s.images == nil {
		return
	}
	if s.store.Snapshot().ImageReferences(rec.ImagePath) > 0 {
		return
	}
	// The record is already gone; a leftover file only costs disk space.
	if err := s.images.Remove(rec.ImagePath); err != nil {
		logger.Warn("failed to remove orphaned image", "path", rec.ImagePath, "error", err)
		return
	}
	logger.Info("removed orphaned image", "path", rec.ImagePath)
}

func (s *Service) logger(ctx context.Context) *slog.Logger {
	logger := logging.FromContext(ctx)
	if meta, ok := RequestMetaFrom(ctx); ok {
		logger = logger.With("ip", meta.IP, "user_agent", meta.UserAgent)
	}
	return logger
}
