package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/service/identity"
)

// Accounts is the slice of the identity provider the profile flows need.
type Accounts interface {
	CreateAccount(ctx context.Context, email, password string) (*domain.Account, error)
	Reauthenticate(ctx context.Context, token, password string) error
	UpdateEmail(ctx context.Context, token, newEmail string) error
	UpdatePassword(ctx context.Context, token, newPassword string) error
	SendVerificationEmail(ctx context.Context, token string) error
}

// Store holds profile documents.
type Store interface {
	Set(ctx context.Context, p domain.Profile) error
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, upd domain.ProfileUpdate) error
}

type Service struct {
	accounts Accounts
	store    Store
	logger   *log.Logger
	now      func() time.Time
}

func New(accounts Accounts, store Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{accounts: accounts, store: store, logger: logger, now: time.Now}
}

type RegisterInput struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Register creates the account and then its profile document. A failed
// document write leaves the account in place.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Profile, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" ||
		strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, domain.NewValidationError("Please fill in all required fields")
	}
	if in.Password != in.ConfirmPassword {
		return nil, domain.NewValidationError("Passwords don't match!")
	}
	acct, err := s.accounts.CreateAccount(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	p := domain.Profile{
		UserID:    acct.ID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     acct.Email,
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.store.Set(ctx, p); err != nil {
		s.logger.Printf("profile: register user_id=%s error=%v", acct.ID, err)
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return &p, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.store.Get(ctx, userID)
}

type UpdateInput struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type UpdateResult struct {
	Profile              *domain.Profile `json:"profile"`
	EmailChanged         bool            `json:"emailChanged"`
	PasswordChanged      bool            `json:"passwordChanged"`
	VerificationSent     bool            `json:"verificationSent"`
	VerificationRequired bool            `json:"verificationRequired"`
}

// Update runs the edit-profile flow for the signed-in device token. Steps
// that already succeeded are not undone when a later one fails.
//
// When the current address is unverified the email change is refused with
// identity.ErrOperationNotAllowed; the returned result is still populated
// and has VerificationRequired set.
func (s *Service) Update(ctx context.Context, token, userID string, in UpdateInput) (*UpdateResult, error) {
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)
	if firstName == "" || lastName == "" || email == "" {
		return nil, domain.NewValidationError("Please fill in all required fields")
	}

	current, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	emailChanged := email != current.Email
	passwordChanged := in.NewPassword != ""
	if (emailChanged || passwordChanged) && in.CurrentPassword == "" {
		return nil, domain.NewValidationError("Please enter your current password to update email or password")
	}
	if emailChanged || passwordChanged {
		if err := s.accounts.Reauthenticate(ctx, token, in.CurrentPassword); err != nil {
			return nil, err
		}
	}

	upd := domain.ProfileUpdate{FirstName: &firstName, LastName: &lastName, Phone: &phone}
	if !emailChanged {
		upd.Email = &email
	}
	if err := s.store.Update(ctx, userID, upd); err != nil {
		s.logger.Printf("profile: update user_id=%s error=%v", userID, err)
		return nil, fmt.Errorf("update profile: %w", err)
	}

	res := &UpdateResult{EmailChanged: emailChanged, PasswordChanged: passwordChanged}
	if passwordChanged {
		if err := s.accounts.UpdatePassword(ctx, token, in.NewPassword); err != nil {
			return nil, err
		}
	}
	if emailChanged {
		if err := s.accounts.UpdateEmail(ctx, token, email); err != nil {
			if errors.Is(err, identity.ErrOperationNotAllowed) {
				res.VerificationRequired = true
				res.Profile, _ = s.store.Get(ctx, userID)
				return res, err
			}
			return nil, err
		}
		if err := s.accounts.SendVerificationEmail(ctx, token); err != nil {
			return nil, err
		}
		if err := s.store.Update(ctx, userID, domain.ProfileUpdate{Email: &email}); err != nil {
			return nil, fmt.Errorf("update profile email: %w", err)
		}
		res.VerificationSent = true
	}

	res.Profile, err = s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return res, nil
}
