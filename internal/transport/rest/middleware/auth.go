package middleware

import (
	"context"
	"net/http"
	"strings"

	"surveyflow/internal/service"
)

type contextKey string

const (
	HostIDKey     contextKey = "hostId"
	ResponseIDKey contextKey = "responseId"
	SurveyIDKey   contextKey = "surveyId"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireHost validates host JWT from Authorization header
func (m *AuthMiddleware) RequireHost(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		claims, err := m.authSvc.ValidateHostToken(token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), HostIDKey, claims.HostID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRespondent validates a respondent JWT. The token is scoped to one
// response; requests for any other response id are rejected.
func (m *AuthMiddleware) RequireRespondent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			unauthorized(w, "missing authorization")
			return
		}

		claims, err := m.authSvc.ValidateRespondentToken(token)
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}
		if id := pathValue(r, "responseId"); id != "" && id != claims.ResponseID {
			http.Error(w, `{"error":"token does not grant access to this response"}`, http.StatusForbidden)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, ResponseIDKey, claims.ResponseID)
		ctx = context.WithValue(ctx, SurveyIDKey, claims.SurveyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetHostID extracts host ID from context
func GetHostID(ctx context.Context) string {
	if v, ok := ctx.Value(HostIDKey).(string); ok {
		return v
	}
	return ""
}

// GetResponseID extracts the respondent's response ID from context
func GetResponseID(ctx context.Context) string {
	if v, ok := ctx.Value(ResponseIDKey).(string); ok {
		return v
	}
	return ""
}

// GetSurveyID extracts the respondent's survey ID from context
func GetSurveyID(ctx context.Context) string {
	if v, ok := ctx.Value(SurveyIDKey).(string); ok {
		return v
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func unauthorized(w http.ResponseWriter, msg string) {
	http.Error(w, `{"error":"`+msg+`"}`, http.StatusUnauthorized)
}
