package main

import (
	"log"
	"net/http"

	"fintrack-server/src/api"
	"fintrack-server/src/config"
	"fintrack-server/src/db"
	"fintrack-server/src/plaid"
)

func main() {
	cfg := config.Load()

	db.InitCache()

	// Connect to database
	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatalf("DB migration failed: %v", err)
	}

	plaidClient := plaid.NewClient(cfg.PlaidClientID, cfg.PlaidSecret, cfg.PlaidEnv)

	// Router
	router := api.NewRouter(pool, plaidClient, cfg.AllowedOrigins)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
