// internal/ingest/handler.go
package ingest

import (
	"encoding/json"
	"net/http"

	"github.com/andresuchdata/stocksim/internal/domain"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Handler exposes the ingest service over HTTP. It runs on the admin
// sidecar, separate from the simulation API.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ingest/{dataset}", h.UploadDataset).Methods("POST")
}

// UploadDataset accepts a CSV body for one of the four datasets.
func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	dataset := mux.Vars(r)["dataset"]

	rows, err := h.service.IngestDataset(r.Context(), dataset, r.Body)
	if err != nil {
		log.Error().Err(err).Str("dataset", dataset).Msg("dataset ingest failed")

		status := http.StatusInternalServerError
		if domain.IsValidation(err) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dataset": dataset,
		"rows":    rows,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
