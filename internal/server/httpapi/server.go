// Package httpapi exposes the CropCare services as a JSON-over-HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cropcare/internal/logging"
	"github.com/dmitrijs2005/cropcare/internal/server/services"
	"github.com/dmitrijs2005/cropcare/internal/server/session"
	"github.com/gorilla/mux"
)

const shutdownTimeout = 10 * time.Second

// Services bundles what the handlers call into.
type Services struct {
	Users    *services.UserService
	Weather  *services.WeatherService
	Forum    *services.ForumService
	Chat     *services.ChatService
	Sessions *session.Manager
}

type Server struct {
	address        string
	users          *services.UserService
	weather        *services.WeatherService
	forum          *services.ForumService
	chat           *services.ChatService
	sessions       *session.Manager
	logger         logging.Logger
	jwtSecret      []byte
	maxUploadBytes int64
}

func NewServer(address string, l logging.Logger, svc Services, secretKey string, maxUploadBytes int64) *Server {
	return &Server{
		address:        address,
		users:          svc.Users,
		weather:        svc.Weather,
		forum:          svc.Forum,
		chat:           svc.Chat,
		sessions:       svc.Sessions,
		logger:         l.With("module", "http_server"),
		jwtSecret:      []byte(secretKey),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes builds the router. It is separate from Run so tests can drive it
// through httptest.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/healthz", s.Healthz).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/signup", s.Signup).Methods(http.MethodPost)
	api.HandleFunc("/login", s.Login).Methods(http.MethodPost)

	withSession := api.NewRoute().Subrouter()
	withSession.Use(s.requireSession)
	withSession.HandleFunc("/logout", s.Logout).Methods(http.MethodPost)
	withSession.HandleFunc("/session", s.Session).Methods(http.MethodGet)

	loggedIn := api.NewRoute().Subrouter()
	loggedIn.Use(s.requireSession, requireLogin)
	loggedIn.HandleFunc("/weather", s.Weather).Methods(http.MethodGet)
	loggedIn.HandleFunc("/location/detect", s.DetectLocation).Methods(http.MethodPost)
	loggedIn.HandleFunc("/profile/default-city", s.SaveDefaultCity).Methods(http.MethodPut)
	loggedIn.HandleFunc("/schemes", s.Schemes).Methods(http.MethodGet)
	loggedIn.HandleFunc("/forum", s.ForumList).Methods(http.MethodGet)
	loggedIn.HandleFunc("/forum/join", s.ForumJoin).Methods(http.MethodPost)
	loggedIn.HandleFunc("/forum/posts", s.ForumAsk).Methods(http.MethodPost)
	loggedIn.HandleFunc("/forum/posts/{id}/replies", s.ForumReply).Methods(http.MethodPost)
	loggedIn.HandleFunc("/forum/images/{name}", s.ForumImage).Methods(http.MethodGet)
	loggedIn.HandleFunc("/chat", s.ChatHistory).Methods(http.MethodGet)
	loggedIn.HandleFunc("/chat", s.ChatSend).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusNotFound, errorResponse{Error: "Not found."})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed."})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		errCh <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-errCh
}
