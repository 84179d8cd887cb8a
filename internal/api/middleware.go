package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"library-server/internal/models"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "library_session"

// SessionMiddleware returns a Gin middleware that gates API routes behind a
// valid session cookie
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookieName)
		if err != nil || tokenString == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "Authentication required",
			})
			c.Abort()
			return
		}

		// Parse the session token
		sessionSecret := c.MustGet("sessionSecret").([]byte)
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid signing method")
			}
			return sessionSecret, nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "Invalid session",
			})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "Invalid session claims",
			})
			c.Abort()
			return
		}

		// Get user ID from the token claims
		sub, ok := claims["sub"].(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "Invalid user ID in session",
			})
			c.Abort()
			return
		}

		userID, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "Invalid user ID in session",
			})
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)

		// Set session info in the context
		c.Set("userId", userID)
		c.Set("role", role)
		c.Next()
	}
}

// RateLimitMiddleware applies a process-wide request rate limit to the API
func RateLimitMiddleware(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Status:  "error",
				Code:    "RATE_LIMITED",
				Message: "Too many requests",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
