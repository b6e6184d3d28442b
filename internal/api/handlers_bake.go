package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/notebake/internal/bake"
)

type bakeRequest struct {
	Note    string `json:"note"`
	Subpath string `json:"subpath"`

	// Optional per-request overrides of the configured defaults.
	BakeLinks        *bool `json:"bake_links"`
	BakeEmbeds       *bool `json:"bake_embeds"`
	BakeInList       *bool `json:"bake_in_list"`
	BakeHidden       *bool `json:"bake_hidden"`
	ConvertFileLinks *bool `json:"convert_file_links"`
}

func (req bakeRequest) settings(defaults bake.Settings) bake.Settings {
	s := defaults
	if req.BakeLinks != nil {
		s.BakeLinks = *req.BakeLinks
	}
	if req.BakeEmbeds != nil {
		s.BakeEmbeds = *req.BakeEmbeds
	}
	if req.BakeInList != nil {
		s.BakeInList = *req.BakeInList
	}
	if req.BakeHidden != nil {
		s.BakeHidden = *req.BakeHidden
	}
	if req.ConvertFileLinks != nil {
		s.ConvertFileLinks = *req.ConvertFileLinks
	}
	return s
}

func (s *Server) handleBake(w http.ResponseWriter, r *http.Request) {
	var req bakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Note == "" {
		jsonError(w, "note is required", http.StatusBadRequest)
		return
	}

	doc, ok := s.vault.Lookup(req.Note)
	if !ok {
		jsonError(w, "note not found: "+req.Note, http.StatusNotFound)
		return
	}

	content, err := bake.Bake(r.Context(), s.vault, doc, req.Subpath, req.settings(s.cfg.Settings()))
	if err != nil {
		s.log.Error("bake failed", "note", req.Note, "error", err)
		jsonError(w, "bake failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"note":    doc.ID(),
		"content": content,
	})
}
