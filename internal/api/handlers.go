package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/page-analyzer/internal/analyzer"
	"github.com/user/page-analyzer/internal/metrics"
)

type registerPageRequest struct {
	URL string `json:"url"`
}

type pageResponse struct {
	Page analyzer.Page `json:"page"`
}

type pageDetailResponse struct {
	Page   analyzer.Page    `json:"page"`
	Checks []analyzer.Check `json:"checks"`
}

type checkResponse struct {
	Check analyzer.Check `json:"check"`
}

func (s *Server) registerPage(w http.ResponseWriter, r *http.Request) {
	var req registerPageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "invalid JSON")
		return
	}
	page, err := s.service.RegisterPage(r.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, analyzer.ErrInvalidURL):
			writeError(s.logger, w, http.StatusBadRequest, "invalid url")
		case errors.Is(err, analyzer.ErrConflict):
			writeError(s.logger, w, http.StatusConflict, "page already exists")
		default:
			s.logger.Error("register page failed", zap.Error(err))
			writeError(s.logger, w, http.StatusInternalServerError, "failed to register page")
		}
		return
	}
	metrics.ObservePageRegistered()
	writeJSON(s.logger, w, http.StatusCreated, pageResponse{Page: page})
}

func (s *Server) listPages(w http.ResponseWriter, r *http.Request) {
	pages, err := s.service.ListPages(r.Context())
	if err != nil {
		s.logger.Error("list pages failed", zap.Error(err))
		writeError(s.logger, w, http.StatusInternalServerError, "failed to list pages")
		return
	}
	writeJSON(s.logger, w, http.StatusOK, map[string]any{"pages": pages})
}

func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	pageID, ok := s.pageID(w, r)
	if !ok {
		return
	}
	page, checks, err := s.service.GetPage(r.Context(), pageID)
	if err != nil {
		if errors.Is(err, analyzer.ErrNotFound) {
			writeError(s.logger, w, http.StatusNotFound, "page not found")
			return
		}
		s.logger.Error("get page failed", zap.Error(err))
		writeError(s.logger, w, http.StatusInternalServerError, "failed to load page")
		return
	}
	if checks == nil {
		checks = []analyzer.Check{}
	}
	writeJSON(s.logger, w, http.StatusOK, pageDetailResponse{Page: page, Checks: checks})
}

func (s *Server) runCheck(w http.ResponseWriter, r *http.Request) {
	pageID, ok := s.pageID(w, r)
	if !ok {
		return
	}
	start := time.Now()
	check, err := s.service.RunCheck(r.Context(), pageID)
	if err != nil {
		var fetchErr *analyzer.FetchError
		switch {
		case errors.Is(err, analyzer.ErrNotFound):
			metrics.ObserveCheck("not_found", 0)
			writeError(s.logger, w, http.StatusNotFound, "page not found")
		case errors.As(err, &fetchErr):
			metrics.ObserveCheck("fetch_failed", time.Since(start))
			writeError(s.logger, w, http.StatusBadGateway, "failed to fetch page")
		default:
			metrics.ObserveCheck("error", 0)
			s.logger.Error("run check failed", zap.Error(err))
			writeError(s.logger, w, http.StatusInternalServerError, "failed to run check")
		}
		return
	}
	metrics.ObserveCheck("ok", time.Since(start))
	writeJSON(s.logger, w, http.StatusCreated, checkResponse{Check: check})
}

func (s *Server) removeAllPages(w http.ResponseWriter, r *http.Request) {
	if err := s.service.RemoveAllPages(r.Context()); err != nil {
		s.logger.Error("remove all pages failed", zap.Error(err))
		writeError(s.logger, w, http.StatusInternalServerError, "failed to remove pages")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func (s *Server) pageID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "page_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(s.logger, w, http.StatusBadRequest, "invalid page id")
		return 0, false
	}
	return id, true
}
