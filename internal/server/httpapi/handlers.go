package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/dmitrijs2005/cropcare/internal/server/auth"
	"github.com/dmitrijs2005/cropcare/internal/server/models"
	"github.com/dmitrijs2005/cropcare/internal/server/services"
	"github.com/gorilla/mux"
)

const maxJSONBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func statusFor(err error) int {
	switch {
	case common.IsValidation(err):
		return http.StatusBadRequest
	case common.IsAuthError(err),
		errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, common.ErrForumNotJoined):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrExternalUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	JSON(w, code, errorResponse{Error: common.UserMessage(err)})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	return dec.Decode(v)
}

func (s *Server) badRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type signupRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, "Malformed request.")
		return
	}

	if err := s.users.Signup(r.Context(), req.Username, req.Password, req.ConfirmPassword); err != nil {
		s.writeError(w, r, err)
		return
	}

	JSON(w, http.StatusCreated, map[string]string{"message": "Account created! Please login."})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User        string `json:"user"`
	City        string `json:"city"`
	JoinedForum bool   `json:"joined_forum"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	sessionResponse
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, "Malformed request.")
		return
	}

	rec, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// a fresh login replaces whatever session the client had
	if old, err := s.resolveSession(r); err == nil {
		s.sessions.End(old.ID)
	}

	sess := s.sessions.Start()
	sess.Login(rec.Username, rec.City())

	token, err := auth.GenerateToken(sess.ID, s.jwtSecret, s.sessions.Validity())
	if err != nil {
		s.sessions.End(sess.ID)
		s.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	JSON(w, http.StatusOK, loginResponse{
		Token:           token,
		ExpiresAt:       sess.ExpiresAt(),
		sessionResponse: sessionResponse{User: sess.User(), City: sess.City()},
	})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r)
	s.sessions.End(sess.ID)

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	JSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}

func (s *Server) Session(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r)
	JSON(w, http.StatusOK, sessionResponse{User: sess.User(), City: sess.City(), JoinedForum: sess.JoinedForum()})
}

func (s *Server) Weather(w http.ResponseWriter, r *http.Request) {
	report, err := s.weather.Lookup(r.Context(), GetSession(r), r.URL.Query().Get("city"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, report)
}

type detectResponse struct {
	Detected bool   `json:"detected"`
	City     string `json:"city"`
	Message  string `json:"message"`
}

func (s *Server) DetectLocation(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r)
	city := s.weather.DetectCity(r.Context(), sess)
	if city == "" {
		JSON(w, http.StatusOK, detectResponse{City: sess.City(), Message: "Could not detect location. Please enter manually."})
		return
	}
	JSON(w, http.StatusOK, detectResponse{Detected: true, City: city, Message: "Detected location: " + city})
}

type cityRequest struct {
	City string `json:"city"`
}

func (s *Server) SaveDefaultCity(w http.ResponseWriter, r *http.Request) {
	var req cityRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, "Malformed request.")
		return
	}

	sess := GetSession(r)
	if err := s.weather.SaveDefaultCity(r.Context(), sess, req.City); err != nil {
		s.writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"default_city": sess.City()})
}

func (s *Server) Schemes(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string][]models.Scheme{"schemes": services.Schemes()})
}

func (s *Server) ForumList(w http.ResponseWriter, r *http.Request) {
	order := services.ParseSort(r.URL.Query().Get("sort"))
	posts, err := s.forum.List(r.Context(), order)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{
		"sort":         order,
		"tags":         models.ForumTags,
		"joined_forum": GetSession(r).JoinedForum(),
		"posts":        posts,
	})
}

func (s *Server) ForumJoin(w http.ResponseWriter, r *http.Request) {
	s.forum.Join(GetSession(r))
	JSON(w, http.StatusOK, map[string]bool{"joined_forum": true})
}

// parseMultipart reads a multipart form and returns the text field and the
// optional "image" file. The returned cleanup must always be called.
func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request, field string) (string, *services.Upload, func(), error) {
	cleanup := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return "", nil, cleanup, err
	}
	cleanup = func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	text := r.FormValue(field)

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return text, nil, cleanup, nil
	}
	if err != nil {
		return "", nil, cleanup, err
	}

	closeFile := cleanup
	cleanup = func() {
		file.Close()
		closeFile()
	}
	return text, upload(file, header), cleanup, nil
}

func upload(f multipart.File, h *multipart.FileHeader) *services.Upload {
	return &services.Upload{Filename: h.Filename, Body: f, Size: h.Size}
}

func (s *Server) ForumAsk(w http.ResponseWriter, r *http.Request) {
	question, up, cleanup, err := s.parseMultipart(w, r, "question")
	defer cleanup()
	if err != nil {
		s.badRequest(w, "Malformed upload.")
		return
	}

	post, err := s.forum.Ask(r.Context(), GetSession(r), question, r.FormValue("tag"), up)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, post)
}

func (s *Server) ForumReply(w http.ResponseWriter, r *http.Request) {
	text, up, cleanup, err := s.parseMultipart(w, r, "reply")
	defer cleanup()
	if err != nil {
		s.badRequest(w, "Malformed upload.")
		return
	}

	reply, err := s.forum.Reply(r.Context(), GetSession(r), mux.Vars(r)["id"], text, up)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, reply)
}

func (s *Server) ForumImage(w http.ResponseWriter, r *http.Request) {
	img, err := s.forum.Image(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if img.RedirectURL != "" {
		http.Redirect(w, r, img.RedirectURL, http.StatusFound)
		return
	}
	defer img.Body.Close()

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := io.Copy(w, img.Body); err != nil {
		s.logger.Warn(r.Context(), "image stream interrupted", "error", err)
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) ChatHistory(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string][]models.ChatMessage{"messages": s.chat.History(GetSession(r))})
}

func (s *Server) ChatSend(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		s.badRequest(w, "Malformed request.")
		return
	}

	sess := GetSession(r)
	reply, err := s.chat.Send(r.Context(), sess, req.Message)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{
		"reply":    reply,
		"messages": s.chat.History(sess),
	})
}
