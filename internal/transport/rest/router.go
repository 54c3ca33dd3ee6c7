package rest

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"

	"surveyflow/internal/service"
	"surveyflow/internal/transport/rest/handler"
	"surveyflow/internal/transport/rest/middleware"
	"surveyflow/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	SurveyService   *service.SurveyService
	ResponseService *service.ResponseService
	WSHub           *ws.Hub
	AllowedOrigins  []string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	surveyHandler := handler.NewSurveyHandler(c.SurveyService, c.ResponseService)
	responseHandler := handler.NewResponseHandler(c.ResponseService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.SurveyService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.AllowedOrigins))
	r.Use(middleware.RequestLogger)

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/surveys/{surveyId}/responses", responseHandler.Start).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/surveys/{surveyId}/host", wsHandler.HostWS).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, `{"error":"api docs unavailable"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/surveys", surveyHandler.Create).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/surveys", surveyHandler.List).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Get).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Update).Methods("PUT", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}", surveyHandler.Delete).Methods("DELETE", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}/responses", surveyHandler.Responses).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/surveys/{surveyId}/stats", surveyHandler.Stats).Methods("GET", "OPTIONS")

	// Respondent routes (token scoped to one response)
	respondentRoutes := v1.PathPrefix("/responses/{responseId}").Subrouter()
	respondentRoutes.Use(authMW.RequireRespondent)

	respondentRoutes.HandleFunc("", responseHandler.Get).Methods("GET", "OPTIONS")
	respondentRoutes.HandleFunc("/answers/{questionId}", responseHandler.SetAnswer).Methods("PUT", "OPTIONS")
	respondentRoutes.HandleFunc("/answers/{questionId}", responseHandler.Clear).Methods("DELETE", "OPTIONS")
	respondentRoutes.HandleFunc("/answers/{questionId}/skip", responseHandler.Skip).Methods("POST", "OPTIONS")
	respondentRoutes.HandleFunc("/validate", responseHandler.Validate).Methods("POST", "OPTIONS")
	respondentRoutes.HandleFunc("/submit", responseHandler.Submit).Methods("POST", "OPTIONS")
	respondentRoutes.HandleFunc("/abandon", responseHandler.Abandon).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(allowed []string) mux.MiddlewareFunc {
	origins := make(map[string]bool, len(allowed))
	wildcard := len(allowed) == 0
	for _, o := range allowed {
		if o == "*" {
			wildcard = true
		}
		origins[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origins[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", strings.Join([]string{"Content-Type", "Authorization"}, ", "))

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
