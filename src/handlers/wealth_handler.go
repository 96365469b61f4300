package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateWealthSnapshot(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Date        string  `json:"date"`
			Assets      float64 `json:"assets"`
			Liabilities float64 `json:"liabilities"`
			Notes       string  `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create wealth snapshot request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		date, err := util.ParseDate(req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		snapshot := &models.WealthSnapshot{
			UserID:      userID,
			Date:        date,
			Assets:      req.Assets,
			Liabilities: req.Liabilities,
			Notes:       util.SanitizeText(req.Notes),
		}
		created, err := db.CreateWealthSnapshot(r.Context(), pool, snapshot)
		if err != nil {
			log.Printf("ERROR: Failed to create wealth snapshot for user %d: %v", userID, err)
			http.Error(w, "failed to create wealth snapshot", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created wealth snapshot %s for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAllWealthSnapshots(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		snapshots, err := db.GetAllWealthSnapshots(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get wealth snapshots for user %d: %v", userID, err)
			http.Error(w, "failed to get wealth snapshots", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshots)
	}
}

func UpdateWealthSnapshot(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		snapshotID := chi.URLParam(r, "snapshot_id")
		var req struct {
			Date        string  `json:"date"`
			Assets      float64 `json:"assets"`
			Liabilities float64 `json:"liabilities"`
			Notes       string  `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update wealth snapshot request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		date, err := util.ParseDate(req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		snapshot := &models.WealthSnapshot{
			ID:          snapshotID,
			UserID:      userID,
			Date:        date,
			Assets:      req.Assets,
			Liabilities: req.Liabilities,
			Notes:       util.SanitizeText(req.Notes),
		}
		updated, err := db.UpdateWealthSnapshot(r.Context(), pool, snapshot)
		if err != nil {
			log.Printf("ERROR: Failed to update wealth snapshot %s for user %d: %v", snapshotID, userID, err)
			http.Error(w, "failed to update wealth snapshot", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated wealth snapshot %s for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteWealthSnapshot(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		snapshotID := chi.URLParam(r, "snapshot_id")
		if err := db.DeleteWealthSnapshot(r.Context(), pool, userID, snapshotID); err != nil {
			log.Printf("ERROR: Failed to delete wealth snapshot %s for user %d: %v", snapshotID, userID, err)
			http.Error(w, "failed to delete wealth snapshot", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Deleted wealth snapshot %s for user %d", snapshotID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "wealth snapshot deleted"})
	}
}
