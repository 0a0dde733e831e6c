package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/LovedOnes/internal/core"
	"github.com/go-chi/chi/v5"
)

// maxJSONBody bounds API request bodies.
const maxJSONBody = 64 << 10

// RecordList is the JSON body of GET /api/records.
type RecordList struct {
	Records []core.Record `json:"records"`
	Count   int           `json:"count"`
	Query   string        `json:"query,omitempty"`
}

func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	t := s.service.ListRecords(q)

	records := t.Records
	if records == nil {
		records = []core.Record{}
	}
	writeJSON(w, r, http.StatusOK, RecordList{Records: records, Count: len(records), Query: q})
}

func (s *Server) handleAPIGet(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.service.GetRecord(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, r, core.ErrRecordNotFound, http.StatusNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

// handleAPICreate adds a record from a JSON body. Photos are only accepted
// through the form.
func (s *Server) handleAPICreate(w http.ResponseWriter, r *http.Request) {
	var in core.RecordInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(&in); err != nil {
		s.respondError(w, r, fmt.Errorf("decode request: %w", err), statusForDecode(err))
		return
	}

	rec, err := s.service.AddRecord(WithRequestMetadata(r.Context(), r), in, nil)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	w.Header().Set("Location", "/api/records/"+rec.ID)
	writeJSON(w, r, http.StatusCreated, rec)
}

func (s *Server) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	rec, err := s.service.DeleteRecord(WithRequestMetadata(r.Context(), r), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"deleted": rec})
}

// handleExport downloads the (optionally filtered) records as csv or xlsx.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := core.LookupExportFormat(q.Get("format"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	// Buffered so a failure can still become an error response.
	var buf bytes.Buffer
	if err := s.service.Export(&buf, format.Name, strings.TrimSpace(q.Get("q"))); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("loved_ones_%s%s", time.Now().Format("20060102"), format.Extension)
	w.Header().Set("Content-Type", format.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(buf.Bytes())
}

func statusForDecode(err error) int {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
