package webapp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/diggibyte/lastmile-user/internal/auth"
	"github.com/diggibyte/lastmile-user/internal/models"
	"github.com/diggibyte/lastmile-user/internal/session"
	"github.com/diggibyte/lastmile-user/internal/storage/pgorders"
)

type OrdersService interface {
	ListOrders(ctx context.Context) ([]*models.Order, error)
	OrderDetails(ctx context.Context, orderID string) (*models.OrderView, error)
	Products() []models.Product
	Recommendations() []models.Recommendation
}

type LoginVerifier interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = time.Minute
)

type WebApp struct {
	svc        OrdersService
	verifier   LoginVerifier
	sessions   *session.Store
	limiter    RateLimiter
	sessionTTL time.Duration
}

func New(svc OrdersService, verifier LoginVerifier, sessions *session.Store, limiter RateLimiter, sessionTTL time.Duration) *WebApp {
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &WebApp{svc: svc, verifier: verifier, sessions: sessions, limiter: limiter, sessionTTL: sessionTTL}
}

func (a *WebApp) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(session.Middleware(a.sessions))

	r.Get("/health", a.health)
	r.Get("/login", a.loginPage)
	r.Post("/login", a.loginSubmit)
	r.Get("/logout", a.logout)

	r.Group(func(r chi.Router) {
		r.Use(session.RequireLogin)
		r.Get("/", a.home)
		r.Get("/my-orders", a.myOrders)
		r.Get("/products", a.products)
		r.Get("/orders/{orderID}", a.orderDetails)
	})

	return r
}

func (a *WebApp) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *WebApp) home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"page":     "home",
		"username": session.Username(r.Context()),
	})
}

func (a *WebApp) loginPage(w http.ResponseWriter, r *http.Request) {
	if session.Username(r.Context()) != "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"page": "login"})
}

func (a *WebApp) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if a.limiter != nil {
		ok, n, err := a.limiter.Allow(r.Context(), "login:"+username+":"+clientIP(r), loginAttemptLimit, loginAttemptWindow)
		if err != nil {
			slog.Error("login rate limit check failed", "err", err)
		} else if !ok {
			slog.Warn("login throttled", "username", username, "attempts", n)
			writeError(w, http.StatusTooManyRequests, "too many login attempts")
			return
		}
	}

	canonical, err := a.verifier.Login(r.Context(), username, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		slog.Error("login failed", "err", err)
		writeError(w, http.StatusBadGateway, "login temporarily unavailable")
		return
	}

	id, err := session.NewID()
	if err != nil {
		slog.Error("session id generation failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	expires := time.Now().Add(a.sessionTTL)
	if err := a.sessions.Create(r.Context(), session.Session{ID: id, Username: canonical, ExpiresAt: expires}); err != nil {
		slog.Error("session create failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	session.SetCookie(w, id, expires)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *WebApp) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
		if err := a.sessions.Delete(r.Context(), c.Value); err != nil {
			slog.Error("session delete failed", "err", err)
		}
	}
	session.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// myOrders degrades to an empty order list when the backend is down: the
// page still renders, the outage is visible in the logs.
func (a *WebApp) myOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.svc.ListOrders(r.Context())
	if err != nil {
		slog.Error("list orders failed, rendering empty list", "err", err)
		orders = nil
	}

	type orderRow struct {
		ID         string `json:"id"`
		PlacedDate string `json:"placed_date"`
		Status     string `json:"status"`
	}
	rows := make([]orderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderRow{
			ID:         o.ID,
			PlacedDate: o.PlacedDate.Format("2006-01-02"),
			Status:     o.Status,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"orders":          rows,
		"products":        a.svc.Products(),
		"recommendations": a.svc.Recommendations(),
	})
}

func (a *WebApp) products(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"products": a.svc.Products()})
}

func (a *WebApp) orderDetails(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	view, err := a.svc.OrderDetails(r.Context(), orderID)
	if errors.Is(err, pgorders.ErrOrderNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		slog.Error("order details failed", "order_id", orderID, "err", err)
		writeError(w, http.StatusBadGateway, "order data temporarily unavailable")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
