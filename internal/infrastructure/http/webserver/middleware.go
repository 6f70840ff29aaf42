package webserver

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

type contextKey string

const sessionContextKey contextKey = "session"

// securityHeadersMiddleware sets baseline security headers on every response.
func (s *WebServer) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'")
		if s.config.Auth.SecureCookies {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

// ipBucket tracks request counts for one client IP within a window.
type ipBucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// rateLimitMiddleware enforces a fixed per-IP request budget per minute.
func (s *WebServer) rateLimitMiddleware(next http.Handler) http.Handler {
	limit := s.config.RateLimit.RequestsPerMin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		value, _ := s.rateLimitStore.LoadOrStore(ip, &ipBucket{resetAt: time.Now().Add(time.Minute)})
		bucket := value.(*ipBucket)

		bucket.mu.Lock()
		now := time.Now()
		if now.After(bucket.resetAt) {
			bucket.count = 0
			bucket.resetAt = now.Add(time.Minute)
		}
		bucket.count++
		exceeded := bucket.count > limit
		bucket.mu.Unlock()

		if exceeded {
			s.logger.Warn("Rate limit exceeded", zap.String("ip", ip))
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionFromRequest loads or creates the session and stashes it in the
// request context. Every handler goes through here via currentSession.
func (s *WebServer) currentSession(r *http.Request) *Session {
	if session, ok := r.Context().Value(sessionContextKey).(*Session); ok {
		return session
	}
	if session := s.sessions.Get(r); session != nil {
		return session
	}
	session, err := s.sessions.New()
	if err != nil {
		// The request proceeds anonymously; the id-less session is
		// never persisted.
		s.logger.Error("Failed to create session", zap.Error(err))
		return &Session{}
	}
	return session
}

// withSession stores the session in the request context.
func withSession(r *http.Request, session *Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionContextKey, session))
}

// requireAuth redirects anonymous visitors to the login page.
func (s *WebServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := s.currentSession(r)
		if !session.IsAuthenticated() {
			session.Flash = "Please log in to continue."
			if err := s.sessions.Save(r.Context(), w, session); err != nil {
				s.logger.Warn("Failed to save session", zap.Error(err))
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, withSession(r, session))
	})
}

// requireAuthJSON rejects anonymous AJAX calls with a JSON error body.
func (s *WebServer) requireAuthJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := s.currentSession(r)
		if !session.IsAuthenticated() {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"success": false,
				"error":   "login required",
			})
			return
		}
		next.ServeHTTP(w, withSession(r, session))
	})
}
