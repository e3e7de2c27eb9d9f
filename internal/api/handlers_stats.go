package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleQueryStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "query stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"window": s.cfg.StatsWindow.String(),
		"stats":  s.stats.Snapshot(),
	})
}
