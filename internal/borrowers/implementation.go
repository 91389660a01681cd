// internal/borrowers/implementation.go
package borrowers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"libris/pkg/clock"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLen = 6

// service implements the Service interface.
type service struct {
	store   Store
	clock   clock.Clock
	limiter *rate.Limiter
}

// NewService creates a new borrower directory service instance.
func NewService(store Store, clk clock.Clock) Service {
	return &service{
		store:   store,
		clock:   clk,
		limiter: rate.NewLimiter(rate.Every(1*time.Minute), 5),
	}
}

// Register creates a new borrower with hashed credentials. New borrowers
// start active.
func (s *service) Register(ctx context.Context, email, name, password string) (*Borrower, error) {
	if !s.limiter.Allow() {
		return nil, ErrRateLimited
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, errors.New("invalid email address")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("name is required")
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	if existing, err := s.store.GetBorrowerByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, salt, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now()
	borrower := &Borrower{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.SaveBorrower(ctx, borrower); err != nil {
		return nil, fmt.Errorf("failed to save borrower: %w", err)
	}
	if err := s.store.SaveCredential(ctx, &Credential{
		BorrowerID:   borrower.ID,
		PasswordHash: hash,
		Salt:         salt,
	}); err != nil {
		return nil, fmt.Errorf("failed to save credential: %w", err)
	}

	return borrower, nil
}

// Authenticate verifies a borrower's credentials and returns the borrower
// if successful.
func (s *service) Authenticate(ctx context.Context, email, password string) (*Borrower, error) {
	if !s.limiter.Allow() {
		return nil, ErrRateLimited
	}

	borrower, err := s.store.GetBorrowerByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrBorrowerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	cred, err := s.store.GetCredential(ctx, borrower.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	ok, err := verifyPassword(password, cred.Salt, cred.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return borrower, nil
}

// Get retrieves a borrower by ID.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*Borrower, error) {
	return s.store.GetBorrower(ctx, id)
}

// List returns all borrowers.
func (s *service) List(ctx context.Context) ([]*Borrower, error) {
	return s.store.ListBorrowers(ctx)
}

// SetActive enables or disables a borrower. Disabled borrowers cannot
// check items out but may still return them and pay fines.
func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Borrower, error) {
	borrower, err := s.store.GetBorrower(ctx, id)
	if err != nil {
		return nil, err
	}

	borrower.IsActive = active
	borrower.UpdatedAt = s.clock.Now()
	if err := s.store.SaveBorrower(ctx, borrower); err != nil {
		return nil, fmt.Errorf("failed to save borrower: %w", err)
	}
	return borrower, nil
}
