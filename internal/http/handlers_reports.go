package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"astana/internal/export"
)

// yearRange resolves the requested year span, defaulting to the recorded
// payment range (or the active year when the ledger is empty).
func (s *Server) yearRange(r *http.Request) (startYear, endYear int, err error) {
	defStart, defEnd, err := s.reports.DefaultYearRange(r.Context())
	if err != nil {
		return 0, 0, err
	}
	start, err := queryInt64(r, "start_year", int64(defStart))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start_year")
	}
	end, err := queryInt64(r, "end_year", int64(defEnd))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end_year")
	}
	return int(start), int(end), nil
}

func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	startYear, endYear, err := s.yearRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	blockID, err := queryInt64(r, "block_id", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid block_id"})
		return
	}

	summaries, err := s.reports.SummarizeAll(r.Context(), search, blockID, startYear, endYear)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"start_year": startYear,
		"end_year":   endYear,
		"summaries":  summaries,
	})
}

func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	startYear, endYear, err := s.yearRange(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	blockID, err := queryInt64(r, "block_id", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid block_id"})
		return
	}

	summaries, err := s.reports.SummarizeAll(r.Context(), search, blockID, startYear, endYear)
	if err != nil {
		writeError(w, r, err)
		return
	}

	workbook, err := export.BuildWorkbook(summaries, startYear, endYear)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer workbook.Close()

	filename := export.Filename(time.Now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := workbook.Write(w); err != nil {
		slog.ErrorContext(r.Context(), "Failed to stream workbook", "error", err)
	}
}
