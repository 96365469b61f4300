package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"fintrack-server/src/db"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func ClearCache(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cacheName := chi.URLParam(r, "cache_name")
		switch cacheName {
		case "transactions":
			db.ClearAllTransactionCaches()
		case "rules":
			db.ClearAllRuleCaches()
		case "all":
			db.ClearAllTransactionCaches()
			db.ClearAllRuleCaches()
		default:
			http.Error(w, "unknown cache name", http.StatusBadRequest)
			return
		}
		log.Printf("INFO: Cleared cache %s", cacheName)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "cache cleared"})
	}
}
