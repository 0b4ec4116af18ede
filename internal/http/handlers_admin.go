package http

import (
	"net/http"
	"path/filepath"
	"time"

	"astana/internal/core"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.storage.GetSettings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req core.UpdateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	if err := s.storage.UpdateSettings(r.Context(), req); err != nil {
		writeError(w, r, err)
		return
	}
	settings, err := s.storage.GetSettings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.storage.GetDatabaseStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"graves_count":   stats.GravesCount,
		"heirs_count":    stats.HeirsCount,
		"payments_count": stats.PaymentsCount,
		"size_bytes":     stats.SizeBytes,
		"total_records":  stats.TotalRecords(),
	})
}

type backupBody struct {
	Dir string `json:"dir"`
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	var body backupBody
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	if body.Dir == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing backup dir"})
		return
	}

	name := "astana_backup_" + time.Now().Format("20060102_150405") + ".db"
	path := filepath.Join(body.Dir, name)
	if err := s.storage.Backup(r.Context(), path); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}
