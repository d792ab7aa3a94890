package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gp3-app/calgo/internal/models"
	"github.com/gp3-app/calgo/internal/utils"
	"gorm.io/gorm"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents a registration request. RegistrationCode is
// the company slug handed out when the tenant was provisioned.
type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	RegistrationCode string `json:"registrationCode"`
}

// login handles user login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// 1. Find User
	var user models.User
	if err := r.db.Where("email = ?", strings.ToLower(loginReq.Email)).First(&user).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// 2. Check Password
	if !user.IsActive || !utils.CheckPasswordHash(loginReq.Password, user.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// 3. Update Last Login
	now := time.Now()
	user.LastLogin = &now
	r.db.Save(&user)

	// 4. Generate Token
	token, err := utils.GenerateToken(&user, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// register handles operator sign-up against a provisioned tenant
func (r *Router) register(w http.ResponseWriter, req *http.Request) {
	var regReq RegisterRequest
	if err := json.NewDecoder(req.Body).Decode(&regReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if regReq.Email == "" || regReq.Password == "" || regReq.RegistrationCode == "" {
		respondError(w, http.StatusBadRequest, "email, password and registrationCode are required")
		return
	}

	// 1. Resolve the tenant from the registration code
	var company models.Company
	err := r.db.Where("slug = ? AND is_active = ?", strings.ToLower(regReq.RegistrationCode), true).
		First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, "invalid registration code")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to look up registration code")
		return
	}

	// 2. Enforce the tenant's seat limit
	if company.MaxUsers > 0 {
		var seats int64
		r.db.Model(&models.User{}).Where("company_id = ?", company.ID).Count(&seats)
		if seats >= int64(company.MaxUsers) {
			respondError(w, http.StatusForbidden, "Company has reached its user limit")
			return
		}
	}

	// 3. Hash Password
	hashedPassword, err := utils.HashPassword(regReq.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	// 4. Create User
	user := models.User{
		Email:     strings.ToLower(regReq.Email),
		Password:  hashedPassword,
		FirstName: regReq.FirstName,
		LastName:  regReq.LastName,
		Role:      "operator",
		CompanyID: company.ID,
		IsActive:  true,
	}
	if err := r.db.Create(&user).Error; err != nil {
		respondError(w, http.StatusConflict, "Email is already registered")
		return
	}

	// 5. Generate Token for immediate login
	token, err := utils.GenerateToken(&user, r.cfg.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "User created but failed to generate token")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
		"company": company,
	})
}

// logout handles user logout
func (r *Router) logout(w http.ResponseWriter, req *http.Request) {
	// Token invalidation is client-side; the session is stateless
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
