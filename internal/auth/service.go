// Package auth implements the three authentication operations — login,
// signup, logout — orchestrating input validation, credential-store
// lookups and mutations, and session state transitions.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/authvault/internal/logging"
	"github.com/dmitrijs2005/authvault/internal/models"
	"github.com/dmitrijs2005/authvault/internal/session"
	"github.com/dmitrijs2005/authvault/internal/store"
)

// Service exposes the operation surface consumed by the UI layer.
//
// Errors from Login and Signup are reported on two channels on purpose:
// they are recorded in the session error slot (for reactive rendering) AND
// returned to the caller (so the call site can react synchronously).
// Logout never fails from the caller's perspective.
//
// Operations are serialized through a single mutex, so two rapid submits
// cannot interleave their read-modify-write cycles over the users list.
type Service struct {
	mu       sync.Mutex
	store    store.Store
	session  *session.Manager
	log      logging.Logger
	validate *validator.Validate
	secret   []byte
	cost     int

	// test seams
	now   func() time.Time
	newID func() string
}

// NewService wires the operations to the credential store and the session
// container. secret signs session tokens; cost is the bcrypt work factor
// (<= 0 selects the bcrypt default).
func NewService(st store.Store, sess *session.Manager, log logging.Logger, secret []byte, cost int) *Service {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		store:    st,
		session:  sess,
		log:      log,
		validate: validator.New(),
		secret:   secret,
		cost:     cost,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Login authenticates an email/password pair against the registered-users
// list. The first stored user whose email matches and whose password hash
// verifies wins. On success the credential-free user and a fresh token are
// persisted and the session becomes authenticated.
func (s *Service) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.ClearError()
	s.session.SetLoading()

	in := loginInput{Email: normalizeEmail(email), Password: password}
	if err := checkInput(s.validate, in); err != nil {
		s.session.Fail(err.Error())
		return err
	}

	users, err := s.readUsers(ctx, s.store)
	if err != nil {
		s.session.Fail(err.Error())
		return err
	}

	var matched *models.StoredUser
	for i := range users {
		if users[i].Email != in.Email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(users[i].PasswordHash), []byte(in.Password)) == nil {
			matched = &users[i]
			break
		}
	}
	if matched == nil {
		s.session.Fail(ErrInvalidCredentials.Error())
		return ErrInvalidCredentials
	}

	pub := matched.Public()
	if err := s.persistSession(ctx, pub); err != nil {
		s.session.Fail(err.Error())
		return err
	}

	s.session.SetAuthenticated(&pub)
	s.log.Info(ctx, "login successful", "email", pub.Email)
	return nil
}

// Signup registers a new account and logs it in. The duplicate-email check
// and the list append run inside one store Update, so concurrent signups
// cannot both observe the email as free.
func (s *Service) Signup(ctx context.Context, name, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.ClearError()
	s.session.SetLoading()

	in := signupInput{
		Name:     strings.TrimSpace(name),
		Email:    normalizeEmail(email),
		Password: password,
	}
	if err := checkInput(s.validate, in); err != nil {
		s.session.Fail(err.Error())
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		err = fmt.Errorf("hashing password: %w", err)
		s.session.Fail(err.Error())
		return err
	}

	stored := models.StoredUser{
		User: models.User{
			ID:        s.newID(),
			Name:      in.Name,
			Email:     in.Email,
			CreatedAt: s.now().UTC(),
		},
		PasswordHash: string(hash),
	}

	err = s.store.Update(ctx, func(ctx context.Context, st store.Store) error {
		users, err := s.readUsers(ctx, st)
		if err != nil {
			return err
		}
		for _, u := range users {
			if u.Email == in.Email {
				return ErrDuplicateUser
			}
		}
		raw, err := json.Marshal(append(users, stored))
		if err != nil {
			return fmt.Errorf("encoding users list: %w", err)
		}
		return st.Set(ctx, store.KeyUsers, raw)
	})
	if err != nil {
		s.session.Fail(err.Error())
		return err
	}

	pub := stored.Public()
	if err := s.persistSession(ctx, pub); err != nil {
		s.session.Fail(err.Error())
		return err
	}

	s.session.SetAuthenticated(&pub)
	s.log.Info(ctx, "signup successful", "email", pub.Email)
	return nil
}

// Logout clears the persisted session best-effort and always settles the
// state logged out. The returned error is currently always nil; storage
// failures are logged and swallowed.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.SetLoading()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.store.Remove(gctx, store.KeyUser) })
	g.Go(func() error { return s.store.Remove(gctx, store.KeyToken) })
	if err := g.Wait(); err != nil {
		s.log.Error(ctx, "failed to clear stored session", "error", err)
	}

	s.session.SetLoggedOut()
	return nil
}

// ClearError empties the session error slot.
func (s *Service) ClearError() {
	s.session.ClearError()
}

// persistSession mints a fresh token and writes the active user and token
// entries, mirroring the parallel writes of the session restore path. The
// user passed in never carries credential material.
func (s *Service) persistSession(ctx context.Context, u models.User) error {
	token, err := MintToken(u.ID, s.secret, s.now())
	if err != nil {
		return fmt.Errorf("minting session token: %w", err)
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.store.Set(gctx, store.KeyUser, raw) })
	g.Go(func() error { return s.store.Set(gctx, store.KeyToken, []byte(token)) })
	return g.Wait()
}

// readUsers loads the registered-users list. An absent or unparseable entry
// degrades to an empty list; an I/O failure propagates and fails the
// enclosing operation.
func (s *Service) readUsers(ctx context.Context, st store.Store) ([]models.StoredUser, error) {
	raw, err := st.Get(ctx, store.KeyUsers)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var users []models.StoredUser
	if err := json.Unmarshal(raw, &users); err != nil {
		s.log.Warn(ctx, "users list unparseable, treating as empty", "error", err)
		return nil, nil
	}
	return users, nil
}
