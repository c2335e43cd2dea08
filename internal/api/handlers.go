package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/docuport/docuport/internal/docstore"
	"github.com/docuport/docuport/internal/vecindex"
)

// saveUpload archives one multipart file into the session and returns its
// stored path.
func (s *Server) saveUpload(sessionID string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	if s.cfg.Ingest.MaxFileSize > 0 && fh.Size > s.cfg.Ingest.MaxFileSize {
		return "", fmt.Errorf("file %s exceeds size limit", fh.Filename)
	}
	return s.docs.Save(sessionID, &docstore.FileUpload{Name: fh.Filename, R: f})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.Ingest.MaxFileSize); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	_, fh, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing file field")
		return
	}

	sessionID, err := s.docs.NewSession()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	path, err := s.saveUpload(sessionID, fh)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	text, err := s.extractor.Text(path)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	analysis, err := s.analyzer.Analyze(r.Context(), text)
	if err != nil {
		log.Error("analysis failed", "file", fh.Filename, "error", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"analysis":   analysis,
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(2 * s.cfg.Ingest.MaxFileSize); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	_, refFH, err := r.FormFile("reference")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing reference field")
		return
	}
	_, actFH, err := r.FormFile("actual")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing actual field")
		return
	}

	sessionID, err := s.docs.NewSession()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	refPath, err := s.saveUpload(sessionID, refFH)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	actPath, err := s.saveUpload(sessionID, actFH)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	refText, err := s.extractor.Text(refPath)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	actText, err := s.extractor.Text(actPath)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	changes, err := s.comparator.Compare(r.Context(), refText, actText)
	if err != nil {
		log.Error("comparison failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"changes":    changes,
	})
}

func (s *Server) handleChatIngest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.Ingest.MaxFileSize); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.respondError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		var err error
		sessionID, err = s.docs.NewSession()
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	} else if !s.docs.SessionExists(sessionID) {
		s.respondError(w, http.StatusNotFound, "unknown session")
		return
	}

	var paths []string
	for _, fh := range files {
		path, err := s.saveUpload(sessionID, fh)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		paths = append(paths, path)
	}

	added, err := s.chat.Ingest(r.Context(), sessionID, paths)
	if err != nil {
		log.Error("chat ingest failed", "session", sessionID, "error", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"files":      len(paths),
		"added":      added,
	})
}

type chatQueryRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

func (s *Server) handleChatQuery(w http.ResponseWriter, r *http.Request) {
	var req chatQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" || req.Question == "" {
		s.respondError(w, http.StatusBadRequest, "session_id and question are required")
		return
	}

	answer, err := s.chat.Query(r.Context(), req.SessionID, req.Question)
	if err != nil {
		if errors.Is(err, vecindex.ErrIndexNotFound) {
			s.respondError(w, http.StatusNotFound, "no index for session; ingest documents first")
			return
		}
		log.Error("chat query failed", "session", req.SessionID, "error", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"session_id": req.SessionID,
		"answer":     answer,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"version":            s.version,
		"embedding_provider": s.cfg.Embeddings.Provider,
		"embedding_model":    s.cfg.Embeddings.Model,
		"llm_provider":       s.cfg.LLM.Provider,
		"llm_model":          s.cfg.LLM.Model,
		"active_sessions":    s.chat.Sessions(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
