package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/kaushalkrsna1602/auraflow/internal/handler"
	"github.com/kaushalkrsna1602/auraflow/internal/middleware"
	"github.com/kaushalkrsna1602/auraflow/internal/store"
	"github.com/kaushalkrsna1602/auraflow/internal/tribe"
)

type Server struct {
	db           *sql.DB
	authH        *handler.AuthHandler
	groupH       *handler.GroupHandler
	auraH        *handler.AuraHandler
	rewardH      *handler.RewardHandler
	redemptionH  *handler.RedemptionHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	groupStore := store.NewGroupStore(db)
	transactionStore := store.NewTransactionStore(db)
	rewardStore := store.NewRewardStore(db)
	redemptionStore := store.NewRedemptionStore(db)

	svc := tribe.NewService(groupStore, transactionStore, rewardStore, redemptionStore, logger.With("component", "tribe"))

	return &Server{
		db:           db,
		authH:        handler.NewAuthHandler(userStore, sessionStore, logger.With("component", "auth")),
		groupH:       handler.NewGroupHandler(svc, logger.With("component", "group")),
		auraH:        handler.NewAuraHandler(svc, logger.With("component", "aura")),
		rewardH:      handler.NewRewardHandler(svc, logger.With("component", "reward")),
		redemptionH:  handler.NewRedemptionHandler(svc, logger.With("component", "redemption")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Group API routes
	mux.HandleFunc("POST /api/groups", s.groupH.Create)
	mux.HandleFunc("GET /api/groups", s.groupH.ListMine)
	mux.HandleFunc("GET /api/groups/public", s.groupH.ListPublic)
	mux.HandleFunc("GET /api/groups/{id}", s.groupH.Get)
	mux.HandleFunc("PUT /api/groups/{id}", s.groupH.Rename)
	mux.HandleFunc("DELETE /api/groups/{id}", s.groupH.Delete)
	mux.HandleFunc("POST /api/groups/{id}/join", s.groupH.Join)
	mux.HandleFunc("POST /api/groups/join", s.groupH.JoinByCode)
	mux.HandleFunc("POST /api/groups/{id}/leave", s.groupH.Leave)
	mux.HandleFunc("DELETE /api/groups/{id}/members/{user_id}", s.groupH.RemoveMember)
	mux.HandleFunc("PUT /api/groups/{id}/members/{user_id}/role", s.groupH.UpdateMemberRole)
	mux.HandleFunc("GET /api/groups/{id}/leaderboard", s.groupH.Leaderboard)
	mux.HandleFunc("GET /api/groups/{id}/transactions", s.groupH.Transactions)

	// Aura routes
	mux.HandleFunc("POST /api/groups/{id}/aura", s.auraH.Give)

	// Reward API routes
	mux.HandleFunc("POST /api/groups/{id}/rewards", s.rewardH.Create)
	mux.HandleFunc("GET /api/groups/{id}/rewards", s.rewardH.List)
	mux.HandleFunc("PUT /api/rewards/{id}", s.rewardH.Update)
	mux.HandleFunc("DELETE /api/rewards/{id}", s.rewardH.Delete)
	mux.HandleFunc("POST /api/rewards/{id}/redeem", s.rewardH.Redeem)

	// Redemption API routes
	mux.HandleFunc("GET /api/groups/{id}/redemptions", s.redemptionH.ListMine)
	mux.HandleFunc("GET /api/groups/{id}/redemptions/pending", s.redemptionH.ListPending)
	mux.HandleFunc("GET /api/groups/{id}/redemptions/alerts", s.redemptionH.Alerts)
	mux.HandleFunc("POST /api/redemptions/{id}/approve", s.redemptionH.Approve)
	mux.HandleFunc("POST /api/redemptions/{id}/reject", s.redemptionH.Reject)
}
