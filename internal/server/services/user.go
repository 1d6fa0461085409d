// Package services contains server-side business logic. This file implements
// UserService, which owns the user profile store: signup, login and the
// default city, all as load-mutate-save cycles over one JSON document.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/dmitrijs2005/cropcare/internal/cryptox"
	"github.com/dmitrijs2005/cropcare/internal/logging"
	"github.com/dmitrijs2005/cropcare/internal/server/models"
	"github.com/dmitrijs2005/cropcare/internal/server/repositories/users"
)

// UserService provides account operations:
// - CreateAccount / Signup: add a user with a hashed password
// - Authenticate / Login: verify credentials
// - SetDefaultCity / SaveDefaultCity: remember a user's city
//
// The store-taking variants operate on an already loaded UserStore and persist
// it on success. The others load the store themselves and hold the service
// lock for the whole cycle, so concurrent requests in one process never lose
// each other's writes.
type UserService struct {
	repo   users.Repository
	scheme cryptox.Scheme
	logger logging.Logger
	mu     sync.Mutex
}

// NewUserService constructs a UserService. New passwords are hashed with scheme.
func NewUserService(repo users.Repository, scheme cryptox.Scheme, logger logging.Logger) *UserService {
	return &UserService{
		repo:   repo,
		scheme: scheme,
		logger: logger.With("service", "users"),
	}
}

// Load reads the user store. A corrupt document is logged for the operator
// and replaced by an empty store; any other failure is returned.
func (s *UserService) Load(ctx context.Context) (models.UserStore, error) {
	store, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, common.ErrStorageCorrupt) {
			s.logger.Error(ctx, "user document is corrupt, continuing with an empty store", "error", err)
			return models.UserStore{}, nil
		}
		return nil, fmt.Errorf("error loading users: %w", err)
	}
	return store, nil
}

// Save persists the whole store.
func (s *UserService) Save(ctx context.Context, store models.UserStore) error {
	if err := s.repo.Save(ctx, store); err != nil {
		return fmt.Errorf("error saving users: %w", err)
	}
	return nil
}

// HashPassword hashes plaintext with the configured scheme.
func (s *UserService) HashPassword(plaintext string) (string, error) {
	return cryptox.Hash(s.scheme, plaintext)
}

// CreateAccount inserts username with a hashed password and no default city,
// then saves the store. The store is left untouched on failure.
func (s *UserService) CreateAccount(ctx context.Context, store models.UserStore, username, password string) error {
	if username == "" {
		return common.ErrEmptyUsername
	}
	if _, ok := store[username]; ok {
		return common.ErrUsernameTaken
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	store[username] = models.UserRecord{Username: username, PasswordHash: hash}
	if err := s.Save(ctx, store); err != nil {
		delete(store, username)
		return err
	}

	s.logger.Info(ctx, "account created", "username", username)
	return nil
}

// Signup checks the confirmation and creates the account against a freshly
// loaded store.
func (s *UserService) Signup(ctx context.Context, username, password, confirm string) error {
	if username == "" {
		return common.ErrEmptyUsername
	}
	if password != confirm {
		return common.ErrPasswordMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return s.CreateAccount(ctx, store, username, password)
}

// Authenticate returns the record when password matches. Unknown users and
// wrong passwords are distinct errors; callers must render them alike.
func (s *UserService) Authenticate(_ context.Context, store models.UserStore, username, password string) (models.UserRecord, error) {
	if username == "" {
		return models.UserRecord{}, common.ErrEmptyUsername
	}

	rec, ok := store[username]
	if !ok {
		return models.UserRecord{}, common.ErrUnknownUser
	}
	if !cryptox.VerifyPassword(rec.PasswordHash, password) {
		return models.UserRecord{}, common.ErrWrongPassword
	}

	rec.Username = username
	return rec, nil
}

// Login authenticates against a freshly loaded store.
func (s *UserService) Login(ctx context.Context, username, password string) (models.UserRecord, error) {
	store, err := s.Load(ctx)
	if err != nil {
		return models.UserRecord{}, err
	}

	rec, err := s.Authenticate(ctx, store, username, password)
	if err != nil {
		if common.IsAuthError(err) {
			s.logger.Info(ctx, "login rejected", "username", username)
		}
		return models.UserRecord{}, err
	}

	s.logger.Info(ctx, "login", "username", username)
	return rec, nil
}

// SetDefaultCity overwrites the user's default city and saves the store.
func (s *UserService) SetDefaultCity(ctx context.Context, store models.UserStore, username, city string) error {
	rec, ok := store[username]
	if !ok {
		return common.ErrUnknownUser
	}

	prev := rec.DefaultCity
	rec.DefaultCity = models.StringPtr(city)
	store[username] = rec

	if err := s.Save(ctx, store); err != nil {
		rec.DefaultCity = prev
		store[username] = rec
		return err
	}
	return nil
}

// SaveDefaultCity sets the default city against a freshly loaded store.
func (s *UserService) SaveDefaultCity(ctx context.Context, username, city string) error {
	if city == "" {
		return common.ErrCityRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	store, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if err := s.SetDefaultCity(ctx, store, username, city); err != nil {
		return err
	}

	s.logger.Info(ctx, "default city saved", "username", username, "city", city)
	return nil
}

// GetUser returns one record, or ErrorNotFound.
func (s *UserService) GetUser(ctx context.Context, username string) (models.UserRecord, error) {
	store, err := s.Load(ctx)
	if err != nil {
		return models.UserRecord{}, err
	}

	rec, ok := store[username]
	if !ok {
		return models.UserRecord{}, common.ErrorNotFound
	}
	return rec, nil
}

// ListUsers returns all records ordered by username.
func (s *UserService) ListUsers(ctx context.Context) ([]models.UserRecord, error) {
	store, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.UserRecord, 0, len(store))
	for _, rec := range store {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
