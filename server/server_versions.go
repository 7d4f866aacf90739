package server

import (
	"net/http"
	"strings"
)

// handleVersions обрабатывает запрос списка поддерживаемых версий
func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	versions, err := s.engine.Versions()
	if err != nil {
		s.writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	summaries := make([]*VersionSummary, 0, len(versions))
	for _, v := range versions {
		summaries = append(summaries, versionSummary(v))
	}

	s.writeJSONResponse(w, map[string]interface{}{
		"versions":          summaries,
		"total":             len(summaries),
		"supported_convert": s.getConverter().SupportedPairs(),
	}, http.StatusOK)
}

// handleVersionsReload перезагружает дескрипторы версий с диска
func (s *Server) handleVersionsReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.engine.Reload(); err != nil {
		s.writeJSONError(w, "Failed to reload versions: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.rebuildConverter(); err != nil {
		s.writeJSONError(w, "Failed to rebuild converter: "+err.Error(), http.StatusInternalServerError)
		return
	}

	versions, err := s.engine.Versions()
	if err != nil {
		s.writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSONResponse(w, map[string]interface{}{
		"reloaded": true,
		"total":    len(versions),
	}, http.StatusOK)
}

// handleVersionRoutes обрабатывает маршруты /api/euring/versions/{id}
func (s *Server) handleVersionRoutes(w http.ResponseWriter, r *http.Request) {
	versionID := strings.TrimPrefix(r.URL.Path, "/api/euring/versions/")
	if versionID == "" || strings.Contains(versionID, "/") {
		http.Error(w, "Version ID required", http.StatusBadRequest)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	versions, err := s.engine.Versions()
	if err != nil {
		s.writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for _, v := range versions {
		if v.ID == versionID {
			s.writeJSONResponse(w, v, http.StatusOK)
			return
		}
	}

	s.writeJSONError(w, "Version not found: "+versionID, http.StatusNotFound)
}

// handleQuota обрабатывает маршруты /api/euring/quota/{user}
func (s *Server) handleQuota(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimPrefix(r.URL.Path, "/api/euring/quota/")
	if userID == "" {
		http.Error(w, "User ID required", http.StatusBadRequest)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status, err := s.db.GetQuota(userID)
	if err != nil {
		s.writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSONResponse(w, status, http.StatusOK)
}

// handleBilling обрабатывает маршруты /api/euring/billing/{user}
func (s *Server) handleBilling(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimPrefix(r.URL.Path, "/api/euring/billing/")
	if userID == "" {
		http.Error(w, "User ID required", http.StatusBadRequest)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, err := s.db.GetBillingHistory(userID, 50)
	if err != nil {
		s.writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSONResponse(w, map[string]interface{}{
		"user_id": userID,
		"entries": entries,
		"total":   len(entries),
	}, http.StatusOK)
}
