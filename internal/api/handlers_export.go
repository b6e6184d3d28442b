package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/dgallion1/notebake/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

type exportRequest struct {
	OutputDir string `json:"output_dir"`

	BakeLinks        *bool `json:"bake_links"`
	BakeEmbeds       *bool `json:"bake_embeds"`
	BakeInList       *bool `json:"bake_in_list"`
	BakeHidden       *bool `json:"bake_hidden"`
	ConvertFileLinks *bool `json:"convert_file_links"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = s.cfg.ExportDir
	}
	outputDir = filepath.Clean(outputDir)

	settings := bakeRequest{
		BakeLinks:        req.BakeLinks,
		BakeEmbeds:       req.BakeEmbeds,
		BakeInList:       req.BakeInList,
		BakeHidden:       req.BakeHidden,
		ConvertFileLinks: req.ConvertFileLinks,
	}.settings(s.cfg.Settings())

	job := pipeline.NewJob(outputDir, settings)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":     job.ID,
		"status":     job.Status,
		"output_dir": outputDir,
		"poll_url":   fmt.Sprintf("/api/export/%s/status", job.ID),
	})
}

func (s *Server) handleExportStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":     snap.ID,
		"status":     snap.Status,
		"phase":      snap.Phase,
		"output_dir": snap.OutputDir,
		"progress":   snap.Progress,
	})
}
