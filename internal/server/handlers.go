package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/claude/ironcoach/internal/builder"
	"github.com/claude/ironcoach/internal/models"
	"github.com/claude/ironcoach/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// handleGetConstants serves the active constants for a builder type. The
// preview side fetches these on session start so its mirrored calculations
// match the server's exactly.
func (s *Server) handleGetConstants(w http.ResponseWriter, r *http.Request) {
	builderType := chi.URLParam(r, "builderType")

	constants, err := s.registry.Active(builderType)
	if err != nil {
		writeBuilderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, constants)
}

// handleGetConstantsVersion serves a specific published constants version,
// used to recompute or audit historical programs.
func (s *Server) handleGetConstantsVersion(w http.ResponseWriter, r *http.Request) {
	builderType := chi.URLParam(r, "builderType")
	version := chi.URLParam(r, "version")

	constants, err := s.registry.Get(builderType, version)
	if err != nil {
		writeBuilderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, constants)
}

// handlePreview generates a program without persisting it. Stateless: the
// response carries the full structure plus the per-movement calculated data
// a mirror compares against its own.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	inputs, ok := decodeInputs(w, r)
	if !ok {
		return
	}

	preview, err := s.generate(inputs)
	if err != nil {
		writeBuilderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// handleCreateProgram validates, recomputes from raw inputs, and persists.
// Pre-computed weights in the request body are ignored by construction: the
// decoded shape only carries inputs, so a client cannot inject a forged
// program structure.
func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	inputs, ok := decodeInputs(w, r)
	if !ok {
		return
	}

	preview, err := s.generate(inputs)
	if err != nil {
		writeBuilderError(w, err)
		return
	}

	name := preview.InputData.Name
	if name == "" {
		name = "8-Week Linear Strength"
	}

	now := time.Now().UTC()
	row := &models.ProgramRow{
		ID:               uuid.New(),
		Name:             name,
		Description:      preview.InputData.Description,
		BuilderType:      preview.InputData.BuilderType,
		AlgorithmVersion: preview.AlgorithmVersion,
		DurationWeeks:    preview.InputData.DurationWeeks,
		DaysPerWeek:      preview.InputData.DaysPerWeek,
		InputData:        preview.InputData,
		CalculatedData:   preview.CalculatedData,
		Weeks:            preview.Weeks,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.db.InsertProgram(r.Context(), row); err != nil {
		s.log.Error("insert program failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.log.Info("program created", "id", row.ID, "algorithm_version", row.AlgorithmVersion)
	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.db.ListPrograms(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid program ID"})
		return
	}

	row, err := s.db.GetProgram(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrProgramNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "program not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// handleRegenerateProgram reruns a stored program's raw inputs through the
// currently active constants and persists the result under the new algorithm
// version. This is the only path that moves a persisted program to newer
// constants; it never happens in the background.
func (s *Server) handleRegenerateProgram(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid program ID"})
		return
	}

	row, err := s.db.GetProgram(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrProgramNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "program not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	preview, err := s.generate(row.InputData)
	if err != nil {
		writeBuilderError(w, err)
		return
	}
	if preview.AlgorithmVersion == row.AlgorithmVersion {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":            "unchanged",
			"algorithm_version": row.AlgorithmVersion,
		})
		return
	}

	if err := s.db.UpdateProgramGeneration(r.Context(), id, preview.AlgorithmVersion,
		preview.CalculatedData, preview.Weeks); err != nil {
		s.log.Error("regenerate program failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.log.Info("program regenerated", "id", id,
		"from_version", row.AlgorithmVersion, "to_version", preview.AlgorithmVersion)
	writeJSON(w, http.StatusOK, map[string]string{
		"status":            "regenerated",
		"algorithm_version": preview.AlgorithmVersion,
	})
}

// generate resolves the active constants for the request's builder type and
// runs the engine against that snapshot.
func (s *Server) generate(inputs models.ProgramInputs) (*models.ProgramPreview, error) {
	builderType := inputs.BuilderType
	if builderType == "" {
		builderType = builder.BuilderTypeStrengthLinear5x5
	}
	constants, err := s.registry.Active(builderType)
	if err != nil {
		return nil, err
	}
	return builder.Generate(inputs, constants)
}

func decodeInputs(w http.ResponseWriter, r *http.Request) (models.ProgramInputs, bool) {
	var inputs models.ProgramInputs
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return inputs, false
	}
	return inputs, true
}

// writeBuilderError maps builder package errors onto the HTTP taxonomy:
// validation and unsupported builder type are client errors, an unknown
// version is not found.
func writeBuilderError(w http.ResponseWriter, err error) {
	var verr *builder.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
	case errors.Is(err, builder.ErrUnsupportedBuilderType):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, builder.ErrVersionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
