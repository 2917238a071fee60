package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/matches", handler.CreateMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("PUT /v1/matches/{matchID}/lineup", handler.SetLineup)
	mux.HandleFunc("POST /v1/matches/{matchID}/start", handler.StartMatch)
	mux.HandleFunc("POST /v1/matches/{matchID}/half-time", handler.HalfTime)
	mux.HandleFunc("POST /v1/matches/{matchID}/resume", handler.ResumeMatch)
	mux.HandleFunc("POST /v1/matches/{matchID}/postpone", handler.PostponeMatch)
	mux.HandleFunc("POST /v1/matches/{matchID}/cancel", handler.CancelMatch)
	mux.HandleFunc("POST /v1/matches/{matchID}/goals", handler.RecordGoal)
	mux.HandleFunc("POST /v1/matches/{matchID}/cards", handler.RecordCard)
	mux.HandleFunc("POST /v1/matches/{matchID}/substitutions", handler.RecordSubstitution)
	mux.HandleFunc("POST /v1/matches/{matchID}/complete", handler.CompleteMatch)
}

func registerStatisticsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/{playerID}/aggregate", handler.GetPlayerAggregate)
	mux.HandleFunc("GET /v1/players/{playerID}/consistency", handler.GetPlayerConsistency)
	mux.HandleFunc("GET /v1/teams/{teamID}/aggregate", handler.GetTeamAggregate)
	mux.HandleFunc("GET /v1/teams/{teamID}/form", handler.GetRecentForm)
	mux.HandleFunc("GET /v1/teams/{teamID}/competitions", handler.GetCompetitionBreakdown)
	mux.HandleFunc("GET /v1/dashboard", handler.GetDashboard)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/reconcile", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReconcileJob)))
}
