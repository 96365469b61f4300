package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func issueToken(userID int64, username string, superAdmin bool) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":     userID,
		"username":    username,
		"super_admin": superAdmin,
		"exp":         time.Now().Add(time.Hour * 168).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func Register(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Username  string `json:"username"`
			Email     string `json:"email"`
			Password  string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode register request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		req.Email = strings.TrimSpace(req.Email)
		req.Username = strings.TrimSpace(req.Username)

		if !util.ValidateEmail(req.Email) {
			log.Printf("ERROR: Email validation failed during registration - Email: %s", req.Email)
			http.Error(w, "invalid email format", http.StatusBadRequest)
			return
		}

		if !util.ValidateUsername(req.Username) {
			log.Printf("ERROR: Username validation failed during registration - Username: %s", req.Username)
			http.Error(w, "username must be between 3 and 30 characters", http.StatusBadRequest)
			return
		}

		if !util.ValidatePassword(req.Password) {
			log.Printf("ERROR: Password validation failed during registration - Username: %s", req.Username)
			http.Error(w, "password must be at least 8 characters with uppercase, lowercase, digit, and special character", http.StatusBadRequest)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash password for user %s: %v", req.Username, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp, err := db.CreateUser(r.Context(), pool, models.RegisterRequest{
			FirstName: util.SanitizeText(req.FirstName),
			LastName:  util.SanitizeText(req.LastName),
			Username:  req.Username,
			Email:     req.Email,
		}, string(hashedPassword))
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				log.Printf("ERROR: Registration failed - email or username already exists - Email: %s, Username: %s", req.Email, req.Username)
				http.Error(w, "email or username already exists", http.StatusConflict)
				return
			}
			log.Printf("ERROR: Failed to create user %s: %v", req.Username, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Successful registration - User: %s, ID: %d", resp.Username, resp.ID)

		tokenString, err := issueToken(resp.ID, resp.Username, resp.SuperAdmin)
		if err != nil {
			log.Printf("ERROR: Failed to generate JWT token for user %s: %v", resp.Username, err)
			http.Error(w, "Error generating token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"token": tokenString,
		})
	}
}

func Login(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials struct {
			UsernameOrEmail string `json:"username"`
			Password        string `json:"password"`
		}

		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Printf("ERROR: Failed to decode login request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		user, err := db.GetUserByUsername(r.Context(), pool, strings.ToLower(credentials.UsernameOrEmail))
		if err != nil {
			user, err = db.GetUserByEmail(r.Context(), pool, strings.ToLower(credentials.UsernameOrEmail))
			if err != nil {
				log.Printf("ERROR: Failed to find user during login - Username/Email: %s: %v", credentials.UsernameOrEmail, err)
				http.Error(w, "User not found", http.StatusUnauthorized)
				return
			}
		}

		if user.Locked {
			log.Printf("ERROR: Locked user attempted login - Username/Email: %s", credentials.UsernameOrEmail)
			http.Error(w, "User account is locked", http.StatusForbidden)
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(credentials.Password)); err != nil {
			log.Printf("ERROR: Invalid password attempt for username/email %s from IP %s",
				credentials.UsernameOrEmail, r.RemoteAddr)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		tokenString, err := issueToken(user.ID, user.Username, user.SuperAdmin)
		if err != nil {
			log.Printf("ERROR: Failed to generate JWT token for user %s: %v", user.Username, err)
			http.Error(w, "Error generating token", http.StatusInternalServerError)
			return
		}

		if err := db.UpdateUserLastLogin(r.Context(), pool, user.ID); err != nil {
			log.Printf("ERROR: Failed to update last_login for user %s: %v", user.Username, err)
		}

		log.Printf("INFO: Successful login - User: %s, ID: %d", user.Username, user.ID)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"token": tokenString,
		})
	}
}
