package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/achievements", handler.ListAchievementCatalog)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedPredictionRoutes(mux, handler, verifier)
	registerAuthorizedLeagueRoutes(mux, handler, verifier)
	registerAuthorizedAchievementRoutes(mux, handler, verifier)
	registerAuthorizedNotificationRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/matches", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.CreateMatch)))
	mux.Handle("POST /v1/internal/matches/{matchID}/result", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RecordMatchResult)))
	mux.Handle("POST /v1/internal/matches/{matchID}/score", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.UpdateLiveScore)))
	mux.Handle("POST /v1/internal/matches/{matchID}/cancel", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.CancelMatch)))
	mux.Handle("POST /v1/internal/matches/{matchID}/settle", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SettleMatch)))
	mux.Handle("POST /v1/internal/jobs/sweep-statuses", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunStatusSweepJob)))
	mux.Handle("POST /v1/internal/jobs/sweep-settlement", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSettlementSweepJob)))
	mux.Handle("POST /v1/internal/jobs/sweep-leagues", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLeagueSweepJob)))
}

func registerAuthorizedPredictionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/predictions", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPrediction)))
	mux.Handle("GET /v1/predictions", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPredictions)))
	mux.Handle("GET /v1/predictions/stats", RequireAuth(verifier, http.HandlerFunc(handler.GetMyPredictionStats)))
	mux.Handle("GET /v1/matches/{matchID}/prediction", RequireAuth(verifier, http.HandlerFunc(handler.GetMyPredictionForMatch)))
}

func registerAuthorizedLeagueRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("POST /v1/leagues/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeagueByInvite)))
	mux.Handle("GET /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.ListMyLeagues)))
	mux.Handle("GET /v1/leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}/leaderboard", RequireAuth(verifier, http.HandlerFunc(handler.GetLeagueLeaderboard)))
	mux.Handle("PUT /v1/leagues/{leagueID}/visibility", RequireAuth(verifier, http.HandlerFunc(handler.SetLeagueVisibility)))
}

func registerAuthorizedAchievementRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/achievements/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyAchievements)))
}

func registerAuthorizedNotificationRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/notifications", RequireAuth(verifier, http.HandlerFunc(handler.ListMyNotifications)))
	mux.Handle("POST /v1/notifications/{notificationID}/read", RequireAuth(verifier, http.HandlerFunc(handler.MarkNotificationRead)))
	mux.Handle("POST /v1/notifications/read-all", RequireAuth(verifier, http.HandlerFunc(handler.MarkAllNotificationsRead)))
}
