package web

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/LovedOnes/internal/core"
	"github.com/JonMunkholm/LovedOnes/internal/images"
	"github.com/JonMunkholm/LovedOnes/internal/logging"
	"github.com/JonMunkholm/LovedOnes/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// formWarning is shown when a required form field is left empty.
const formWarning = "Please fill in all fields before saving."

// handleHome renders the form, the full list and, with ?q=, the search hits.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := s.homeParams()
	p.Query = strings.TrimSpace(q.Get("q"))
	p.Saved = q.Get("saved") == "1"
	if p.Query != "" {
		p.Results = s.service.ListRecords(p.Query).Records
	}
	s.renderHome(w, r, http.StatusOK, p)
}

// homeParams fills what every render of the main page needs.
func (s *Server) homeParams() templates.HomeParams {
	p := templates.HomeParams{
		Records:      s.service.ListRecords("").Records,
		ImagesActive: s.images != nil,
		ImageAccept:  acceptList(s.cfg.Image.AllowedTypes),
	}
	if err := s.service.LoadWarning(); err != nil {
		msg := core.MapError(err)
		p.LoadError = &msg
	}
	return p
}

func (s *Server) renderHome(w http.ResponseWriter, r *http.Request, status int, p templates.HomeParams) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Home(p).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Warn("render home", "error", err)
	}
}

// handlePhoto serves a record's photo scaled to the display size.
func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.service.GetRecord(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, r, core.ErrRecordNotFound, http.StatusNotFound)
		return
	}
	if !rec.HasImage() || s.images == nil {
		s.respondError(w, r, images.ErrNotFound, http.StatusNotFound)
		return
	}

	if err := s.resizes.Acquire(r.Context()); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	defer s.resizes.Release()

	data, err := s.images.Resize(rec.ImagePath, s.cfg.Image.DisplayWidth, s.cfg.Image.DisplayHeight)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError && strings.Contains(err.Error(), "decode image") {
			status = http.StatusUnprocessableEntity
		}
		s.respondError(w, r, err, status)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Write(data)
}

// handleHealth reports liveness plus the record count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":  "ok",
		"backend": s.service.Store().Backend().Name(),
		"records": s.service.Count(),
		"resizes": map[string]int{"active": s.resizes.Active(), "capacity": s.resizes.Capacity()},
	}
	if err := s.service.LoadWarning(); err != nil {
		resp["status"] = "degraded"
		resp["load_error"] = core.MapError(err).Code
	}
	writeJSON(w, r, http.StatusOK, resp)
}
