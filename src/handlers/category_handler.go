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

func CreateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create category request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		req.Name = util.SanitizeText(req.Name)
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		if req.Kind != "credit" && req.Kind != "debit" {
			http.Error(w, "kind must be credit or debit", http.StatusBadRequest)
			return
		}
		category := &models.Category{
			UserID: userID,
			Name:   req.Name,
			Kind:   req.Kind,
		}
		created, err := db.CreateCategory(r.Context(), pool, category)
		if err != nil {
			log.Printf("ERROR: Failed to create category for user %d: %v", userID, err)
			http.Error(w, "failed to create category", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created category %s for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAllCategories(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		categories, err := db.GetAllCategories(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get categories for user %d: %v", userID, err)
			http.Error(w, "failed to get categories", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(categories)
	}
}

func UpdateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		categoryID := chi.URLParam(r, "category_id")
		var req struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update category request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Kind != "credit" && req.Kind != "debit" {
			http.Error(w, "kind must be credit or debit", http.StatusBadRequest)
			return
		}
		category := &models.Category{
			ID:     categoryID,
			UserID: userID,
			Name:   util.SanitizeText(req.Name),
			Kind:   req.Kind,
		}
		updated, err := db.UpdateCategory(r.Context(), pool, category)
		if err != nil {
			log.Printf("ERROR: Failed to update category %s for user %d: %v", categoryID, userID, err)
			http.Error(w, "failed to update category", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated category %s for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		categoryID := chi.URLParam(r, "category_id")
		if err := db.DeleteCategory(r.Context(), pool, userID, categoryID); err != nil {
			log.Printf("ERROR: Failed to delete category %s for user %d: %v", categoryID, userID, err)
			http.Error(w, "failed to delete category", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Deleted category %s for user %d", categoryID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "category deleted"})
	}
}
