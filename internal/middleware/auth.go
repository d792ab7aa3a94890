package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gp3-app/calgo/internal/utils"
)

type contextKey string

const userContextKey contextKey = "user"

// Session is the authenticated operator context carried on every request.
// It is the only way handlers learn which tenant they act for.
type Session struct {
	UserID    string
	CompanyID string
	Role      string
}

// Auth verifies a Bearer token and injects the session into the request context
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(parts[1], secret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			session, err := sessionFromClaims(claims)
			if err != nil {
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromClaims(claims jwt.MapClaims) (*Session, error) {
	userID, _ := claims["id"].(string)
	companyID, _ := claims["companyId"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || companyID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &Session{UserID: userID, CompanyID: companyID, Role: role}, nil
}

// GetSession extracts the authenticated session from a request context
func GetSession(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(userContextKey).(*Session)
	return s, ok
}
