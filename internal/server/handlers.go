package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jonathan/candidate-tracker/internal/schemas"
	"github.com/jonathan/candidate-tracker/internal/tracker"
	"github.com/jonathan/candidate-tracker/internal/types"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------
// Candidate Handlers
// ---------------------------------------------------------------------

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"candidates": s.service.Search(r.URL.Query().Get("q")),
	})
}

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req types.CreateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := s.service.Create(r.Context(), req)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, c)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	c, err := s.service.Get(r.PathValue("id"))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

func (s *Server) handleUpdateTracking(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateTrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.IsEmpty() {
		s.serviceError(w, &ErrValidation{Field: "body", Message: "no tracking field to update"})
		return
	}

	c, err := s.service.UpdateTracking(r.Context(), r.PathValue("id"), req)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---------------------------------------------------------------------
// Collection Handlers
// ---------------------------------------------------------------------

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.service.Stats())
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, s.service.ExportFileName()))
	s.jsonResponse(w, http.StatusOK, s.service.Export())
}

type importResponse struct {
	*tracker.ImportReport
	Failures []string `json:"failures"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	mode := s.defaultMode
	if raw := r.URL.Query().Get("mode"); raw != "" {
		parsed, err := types.ParseImportMode(raw)
		if err != nil {
			s.serviceError(w, &ErrValidation{Field: "mode", Message: err.Error()})
			return
		}
		mode = parsed
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "File exceeds the 10 MiB limit")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Expected a multipart form with a file field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Erreur lors de la lecture du fichier.")
		return
	}

	report, err := s.service.Import(r.Context(), header.Filename, content, mode)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, importResponse{
		ImportReport: report,
		Failures:     report.FailureMessages(),
	})
}

func (s *Server) handleNotice(w http.ResponseWriter, _ *http.Request) {
	if s.banner == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	notice, ok := s.banner.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.jsonResponse(w, http.StatusOK, notice)
}

func (s *Server) handleImportSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(schemas.CandidatesExportSchema()); err != nil {
		s.logger.Warn("failed to write schema", zap.Error(err))
	}
}
