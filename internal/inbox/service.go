// Package inbox composes the account store, the credential helpers and the
// token manager into the register/login/deliver/read-inbox operations the
// transport layer calls.
package inbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/voxdrop/voxdrop/internal/common"
	"github.com/voxdrop/voxdrop/internal/credential"
	"github.com/voxdrop/voxdrop/internal/identity"
	"github.com/voxdrop/voxdrop/internal/logging"
	"github.com/voxdrop/voxdrop/internal/store"
	"github.com/voxdrop/voxdrop/internal/token"
)

type Service struct {
	store      *store.Store
	tokens     *token.Manager
	normalizer *identity.Normalizer
	logger     logging.Logger
}

func NewService(st *store.Store, tm *token.Manager, n *identity.Normalizer, l logging.Logger) *Service {
	return &Service{
		store:      st,
		tokens:     tm,
		normalizer: n,
		logger:     l.With("module", "inbox"),
	}
}

// Register creates an account for rawUsername and returns its canonical
// key plus a fresh session token. Fails with common.ErrUsernameTaken when
// the key is already registered.
func (s *Service) Register(ctx context.Context, rawUsername, password string) (string, string, error) {
	key, err := s.normalizer.Normalize(rawUsername)
	if err != nil {
		return "", "", err
	}

	hash, err := credential.Hash(password)
	if err != nil {
		return "", "", err
	}

	if _, err := s.store.CreateAccount(ctx, key, hash); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return "", "", common.ErrUsernameTaken
		}
		return "", "", fmt.Errorf("create account: %w", err)
	}

	tok, err := s.tokens.Issue(key)
	if err != nil {
		return "", "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info(ctx, "registered", "user", key)
	return key, tok, nil
}

// Login verifies the password for rawUsername and returns a session token.
// An unknown username and a wrong password both fail with
// common.ErrInvalidCredentials, deliberately indistinguishable so the
// endpoint cannot be used to enumerate accounts.
func (s *Service) Login(ctx context.Context, rawUsername, password string) (string, error) {
	key, err := s.normalizer.Normalize(rawUsername)
	if err != nil {
		return "", err
	}

	acct, err := s.store.GetAccount(key)
	if err != nil {
		return "", common.ErrInvalidCredentials
	}

	if !credential.Verify(password, acct.CredentialHash) {
		return "", common.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(key)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info(ctx, "login", "user", key)
	return tok, nil
}

// Deliver appends msg to the inbox of rawUsername. ReceivedAt and the
// record ID are assigned by the store; whatever the caller put there is
// ignored. Unknown usernames follow the store's auto-provision policy.
func (s *Service) Deliver(ctx context.Context, rawUsername string, msg store.MessageRecord) error {
	key, err := s.normalizer.Normalize(rawUsername)
	if err != nil {
		return err
	}
	return s.store.AppendMessage(ctx, key, msg)
}

// Authenticate resolves a bearer token to the canonical account key it was
// issued for. A token that verifies but names an account the store no
// longer resolves fails with common.ErrAccountNotFound, which callers
// treat as re-authentication required.
func (s *Service) Authenticate(tokenString string) (string, error) {
	key, err := s.tokens.Verify(tokenString)
	if err != nil {
		return "", err
	}
	if !s.store.Exists(key) {
		return "", common.ErrAccountNotFound
	}
	return key, nil
}

// ReadInbox returns the messages of an already-authenticated account,
// most recent first. Storage order is insertion order; the reversal is a
// read-time presentation transform.
func (s *Service) ReadInbox(ctx context.Context, accountKey string) []store.MessageRecord {
	msgs := s.store.ListInbox(accountKey)
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs
}

// CheckAvailable reports whether rawUsername is free to register.
func (s *Service) CheckAvailable(ctx context.Context, rawUsername string) (bool, error) {
	key, err := s.normalizer.Normalize(rawUsername)
	if err != nil {
		return false, err
	}
	return !s.store.Exists(key), nil
}
