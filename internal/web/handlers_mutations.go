package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/LovedOnes/internal/core"
	"github.com/JonMunkholm/LovedOnes/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// multipartMemory is how much of a form is kept in memory before spilling to
// temp files.
const multipartMemory = 8 << 20

// formOverhead is the allowance for the text fields on top of the photo.
const formOverhead = 1 << 20

// handleCreate saves a record from the add form.
// An empty field re-renders the form with the warning and a 422; success
// redirects to the list with the saved toast.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Image.MaxSize+formOverhead)
	if err := parseForm(r); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	in := core.RecordInput{
		Name:        r.FormValue("name"),
		CurrentDate: r.FormValue("current_date"),
		SpecialDate: r.FormValue("special_date"),
	}

	upload, cleanup, err := formImage(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	defer cleanup()

	ctx := WithRequestMetadata(r.Context(), r)
	if _, err := s.service.AddRecord(ctx, in, upload); err != nil {
		if core.IsValidationError(err) {
			p := s.homeParams()
			p.Form = templates.FormValues{
				Name:        in.Name,
				CurrentDate: in.CurrentDate,
				SpecialDate: in.SpecialDate,
			}
			p.FormWarning = formWarning
			s.renderHome(w, r, http.StatusUnprocessableEntity, p)
			return
		}
		s.respondError(w, r, err, statusFor(err))
		return
	}

	http.Redirect(w, r, "/?saved=1", http.StatusSeeOther)
}

// handleDelete removes a record from the list's delete button.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	if _, err := s.service.DeleteRecord(ctx, chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// parseForm accepts both multipart and urlencoded bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	return nil
}

// formImage returns the uploaded photo, or nil when none was chosen.
func formImage(r *http.Request) (*core.ImageUpload, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil {
		return nil, noop, nil
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, fmt.Errorf("read image: %w", err)
	}

	return &core.ImageUpload{Filename: header.Filename, Reader: file}, func() { file.Close() }, nil
}
