package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedLeagueRoutes(mux, handler, verifier)
	registerAuthorizedDraftRoutes(mux, handler, verifier)
	registerAuthorizedCatalogRoutes(mux, handler, verifier)
	registerAuthorizedParticipantRoutes(mux, handler, verifier)
	registerAuthorizedLineupRoutes(mux, handler, verifier)
}

func registerAuthorizedLeagueRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("POST /v1/leagues/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("GET /v1/leagues/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyLeagues)))
	mux.Handle("GET /v1/leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLeague)))
	mux.Handle("PATCH /v1/leagues/{leagueID}/settings", RequireAuth(verifier, http.HandlerFunc(handler.UpdateLeagueSettings)))
	mux.Handle("POST /v1/leagues/{leagueID}/close", RequireAuth(verifier, http.HandlerFunc(handler.CloseLeague)))
	mux.Handle("DELETE /v1/leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}/members", RequireAuth(verifier, http.HandlerFunc(handler.ListMembers)))
	mux.Handle("DELETE /v1/leagues/{leagueID}/members/{memberID}", RequireAuth(verifier, http.HandlerFunc(handler.RemoveMember)))
	mux.Handle("POST /v1/leagues/{leagueID}/leave", RequireAuth(verifier, http.HandlerFunc(handler.LeaveLeague)))
	mux.Handle("POST /v1/leagues/{leagueID}/reset", RequireAuth(verifier, http.HandlerFunc(handler.ResetMyData)))
}

func registerAuthorizedDraftRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues/{leagueID}/draft", RequireAuth(verifier, http.HandlerFunc(handler.ListDraftBoard)))
	mux.Handle("POST /v1/leagues/{leagueID}/draft/{playerID}/transition", RequireAuth(verifier, http.HandlerFunc(handler.TransitionDraftStatus)))
	mux.Handle("POST /v1/leagues/{leagueID}/draft/{playerID}/reset", RequireAuth(verifier, http.HandlerFunc(handler.ResetDraftState)))
	mux.Handle("GET /v1/leagues/{leagueID}/budget", RequireAuth(verifier, http.HandlerFunc(handler.GetBudgetSummary)))
}

func registerAuthorizedCatalogRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues/{leagueID}/catalog/import", RequireAuth(verifier, http.HandlerFunc(handler.ImportCatalog)))
}

func registerAuthorizedParticipantRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues/{leagueID}/participants", RequireAuth(verifier, http.HandlerFunc(handler.ListParticipants)))
	mux.Handle("POST /v1/leagues/{leagueID}/participants", RequireAuth(verifier, http.HandlerFunc(handler.CreateParticipant)))
	mux.Handle("DELETE /v1/leagues/{leagueID}/participants/{participantID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteParticipant)))
	mux.Handle("POST /v1/leagues/{leagueID}/participants/{participantID}/assignments", RequireAuth(verifier, http.HandlerFunc(handler.AssignPlayer)))
	mux.Handle("DELETE /v1/leagues/{leagueID}/participants/{participantID}/assignments/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.UnassignPlayer)))
}

func registerAuthorizedLineupRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues/{leagueID}/lineups", RequireAuth(verifier, http.HandlerFunc(handler.ListLineups)))
	mux.Handle("PUT /v1/leagues/{leagueID}/lineups", RequireAuth(verifier, http.HandlerFunc(handler.SaveLineup)))
	mux.Handle("GET /v1/leagues/{leagueID}/lineups/schemas", RequireAuth(verifier, http.HandlerFunc(handler.ListLineupSchemas)))
}
