package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"notesapp/internal/apperr"
	"notesapp/internal/auth"
	"notesapp/internal/validate"
)

// Store is the credential store the service needs. *Repo implements it.
type Store interface {
	Insert(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

const maxPasswordBytes = 72

type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

type Service struct {
	store    Store
	tokens   TokenIssuer
	hashCost int
	// dummyHash is compared against on unknown emails so a failed login
	// costs the same whether or not the account exists.
	dummyHash []byte
}

func NewService(store Store, tokens TokenIssuer, hashCost int) (*Service, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), hashCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Service{
		store:     store,
		tokens:    tokens,
		hashCost:  hashCost,
		dummyHash: dummy,
	}, nil
}

// CreateAccount registers a user and returns it with a fresh access token.
func (s *Service) CreateAccount(ctx context.Context, input CreateAccountInput) (*User, string, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validate.Struct(input); err != nil {
		return nil, "", err
	}
	// bcrypt reads at most 72 bytes; the max tag above counts runes.
	if len(input.Password) > maxPasswordBytes {
		return nil, "", apperr.NewValidation(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, "", apperr.NewInternal("hash password", err)
	}

	user := &User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hash),
	}
	if err := s.store.Insert(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, "", apperr.NewConflict("User with the email already exists", err)
		}
		return nil, "", apperr.NewInternal("create user", err)
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return nil, "", apperr.NewInternal("issue token", err)
	}
	return user, token, nil
}

// Login checks credentials and returns an access token. Unknown email and
// wrong password fail the same way.
func (s *Service) Login(ctx context.Context, input LoginInput) (*User, string, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validate.Struct(input); err != nil {
		return nil, "", err
	}

	user, err := s.store.FindByEmail(ctx, input.Email)
	if errors.Is(err, ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(input.Password))
		return nil, "", apperr.NewUnauthorized("Wrong email or password", nil)
	}
	if err != nil {
		return nil, "", apperr.NewInternal("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, "", apperr.NewUnauthorized("Wrong email or password", nil)
	}

	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return nil, "", apperr.NewInternal("issue token", err)
	}
	return user, token, nil
}

// Get re-reads the user behind a verified token. A user that no longer
// exists is Unauthorized rather than NotFound.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*User, error) {
	user, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperr.NewUnauthorized("User no longer exists", err)
	}
	if err != nil {
		return nil, apperr.NewInternal("find user", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
