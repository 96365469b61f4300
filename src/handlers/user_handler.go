package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func GetUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get user %d: %v", userID, err)
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)
	}
}

func UpdateUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			Email     string `json:"email"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update user request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if !util.ValidateEmail(req.Email) {
			log.Printf("ERROR: Email validation failed during user update - Email: %s, User: %d", req.Email, userID)
			http.Error(w, "invalid email format", http.StatusBadRequest)
			return
		}

		err := db.UpdateUserProfile(r.Context(), pool, userID, req.Email,
			util.SanitizeText(req.FirstName), util.SanitizeText(req.LastName))
		if err != nil {
			log.Printf("ERROR: Failed to update user profile - user_id: %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: User profile updated - User: %d", userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "profile updated successfully"})
	}
}

func ChangePassword(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode change password request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get user %d for password change: %v", userID, err)
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.CurrentPassword)); err != nil {
			log.Printf("ERROR: Incorrect current password for user %d", userID)
			http.Error(w, "current password is incorrect", http.StatusUnauthorized)
			return
		}

		if !util.ValidatePassword(req.NewPassword) {
			log.Printf("ERROR: New password validation failed for user %d", userID)
			http.Error(w, "password must be at least 8 characters with uppercase, lowercase, digit, and special character", http.StatusBadRequest)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash new password for user %d: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := db.UpdateUserPassword(r.Context(), pool, userID, string(hashedPassword)); err != nil {
			log.Printf("ERROR: Failed to update password for user %d: %v", userID, err)
			http.Error(w, "failed to update password", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Password changed for user %d", userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "password updated"})
	}
}

func DeleteUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		if err := db.DeleteUser(r.Context(), pool, userID); err != nil {
			log.Printf("ERROR: Failed to delete user %d: %v", userID, err)
			http.Error(w, "failed to delete user", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Deleted user %d", userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "user deleted"})
	}
}

func GetAllUsers(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := db.GetAllUsers(r.Context(), pool)
		if err != nil {
			log.Printf("ERROR: Failed to get all users: %v", err)
			http.Error(w, "failed to get users", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(users)
	}
}
