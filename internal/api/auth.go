package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"ejn_hub/internal/domain" // Importing domain models
	"ejn_hub/internal/store"  // Data layer
	"ejn_hub/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// Request and Response structs
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`        // Display name must be provided
	Email    string `json:"email" binding:"required,email"` // Login email
	Password string `json:"password" binding:"required"`    // Password must be provided
	Team     string `json:"team"`                           // Optional team
	Nickname string `json:"nickname"`                       // Optional nickname
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	Token string      `json:"token"` // JWT token
	User  domain.User `json:"user"`  // Logged in profile
}

// isValidPassword checks if the password length is between 8 and 72 characters (bcrypt's input limit)
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 72 // Return true if length is valid
}

// RegisterHandler creates a collaborator profile
func RegisterHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate name and password
		if strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name must not be blank"})
			return
		}
		if !isValidPassword(req.Password) {
			// If password is invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-72 characters"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		// Lowercase email to keep it unique; every new account is a collaborator
		user := domain.User{
			Name:               strings.TrimSpace(req.Name),
			Nickname:           req.Nickname,
			Email:              strings.ToLower(strings.TrimSpace(req.Email)),
			Password:           string(hash),
			Team:               req.Team,
			Role:               domain.RoleColaborador,
			Status:             "ACTIVE",
			AvailabilityStatus: "OFFLINE",
			ShowOnRanking:      true,
		}
		if err := st.CreateProfile(c.Request.Context(), &user); err != nil {
			if errors.Is(err, store.ErrEmailTaken) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"team":    user.Team,
		}).Info("User registered")
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(st *store.Store, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Fetch user from database
		user, err := st.GetProfileByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if user.IsBlocked {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account blocked"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, string(user.Role), jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
	}
}
