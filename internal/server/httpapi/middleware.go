package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/dmitrijs2005/cropcare/internal/server/auth"
	"github.com/dmitrijs2005/cropcare/internal/server/session"
)

type sessionKey struct{}

func SetSession(r *http.Request, sess *session.Context) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess))
}

// GetSession returns the session resolved by requireSession, or nil.
func GetSession(r *http.Request) *session.Context {
	sess, _ := r.Context().Value(sessionKey{}).(*session.Context)
	return sess
}

// tokenFromRequest reads the session token from the Authorization header,
// falling back to the session cookie.
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get(common.AuthHeaderName); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
		return strings.TrimSpace(h)
	}
	if c, err := r.Cookie(common.SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) resolveSession(r *http.Request) (*session.Context, error) {
	tok := tokenFromRequest(r)
	if tok == "" {
		return nil, common.ErrorUnauthorized
	}
	id, err := auth.GetSessionIDFromToken(tok, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return s.sessions.Get(id)
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.resolveSession(r)
		if err != nil {
			s.logger.Debug(r.Context(), "session rejected", "path", r.URL.Path, "error", err)
			s.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, SetSession(r, sess))
	})
}

func requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r)
		if sess == nil || !sess.LoggedIn() {
			JSON(w, http.StatusUnauthorized, errorResponse{Error: common.UserMessage(common.ErrorUnauthorized)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
