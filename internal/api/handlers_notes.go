package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.vault.Notes()
	if err != nil {
		s.log.Error("listing vault failed", "error", err)
		jsonError(w, "failed to list notes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"notes": notes,
		"count": len(notes),
	})
}
