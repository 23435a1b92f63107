package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"storefront/internal/domain"
	accountrepo "storefront/internal/repository/account"
	tokenrepo "storefront/internal/repository/token"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken        = errors.New("invalid token")
	ErrWrongPassword       = errors.New("wrong password")
	ErrEmailAlreadyInUse   = errors.New("email already in use")
	ErrWeakPassword        = errors.New("weak password")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrRequiresRecentLogin = errors.New("requires recent login")
	// ErrOperationNotAllowed is returned when the current address must be
	// verified before it can be changed.
	ErrOperationNotAllowed = errors.New("operation not allowed")
)

// AuthEvent is one auth-state emission. An empty UserID means the device
// signed out.
type AuthEvent struct {
	DeviceID string
	UserID   string
}

func (e AuthEvent) SignedIn() bool { return e.UserID != "" }

// Observer receives auth-state events. It is called synchronously on the
// goroutine that caused the transition.
type Observer func(ctx context.Context, ev AuthEvent)

// Options tunes a Service. Zero values pick defaults.
type Options struct {
	Logger        *log.Logger
	Mailer        Mailer
	PublicBaseURL string
	AccessTTL     time.Duration
	VerifyTTL     time.Duration
	RecentLogin   time.Duration
}

// Service is the identity provider: accounts, sign in/out, auth-state
// observation and the sensitive account updates.
type Service struct {
	accounts    accountrepo.Repository
	tokens      *tokenManager
	mailer      Mailer
	logger      *log.Logger
	baseURL     string
	accessTTL   time.Duration
	verifyTTL   time.Duration
	recentLogin time.Duration
	passwordMin int
	now         func() time.Time

	mu        sync.RWMutex
	observers map[int]Observer
	nextObs   int
}

// New creates a Service with sane defaults.
func New(accounts accountrepo.Repository, tokens tokenrepo.Repository, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Service{
		accounts:    accounts,
		tokens:      newTokenManager(tokens),
		mailer:      opts.Mailer,
		logger:      logger,
		baseURL:     strings.TrimRight(opts.PublicBaseURL, "/"),
		accessTTL:   opts.AccessTTL,
		verifyTTL:   opts.VerifyTTL,
		recentLogin: opts.RecentLogin,
		passwordMin: 6,
		now:         time.Now,
		observers:   make(map[int]Observer),
	}
	if s.mailer == nil {
		s.mailer = LogMailer{Logger: logger}
	}
	if s.accessTTL <= 0 {
		s.accessTTL = 30 * 24 * time.Hour
	}
	if s.verifyTTL <= 0 {
		s.verifyTTL = 24 * time.Hour
	}
	if s.recentLogin <= 0 {
		s.recentLogin = 5 * time.Minute
	}
	return s
}

// CreateAccount registers a new account. It does not sign in.
func (s *Service) CreateAccount(ctx context.Context, email, password string) (*domain.Account, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	acct, err := s.accounts.Create(ctx, domain.Account{Email: email, PasswordHash: string(hashed)})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrEmailAlreadyInUse
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return acct, nil
}

// SignIn validates credentials, issues an access token and emits SignedIn
// for the device that token identifies.
func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.Account, string, error) {
	acct, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	now := s.now()
	access, err := s.tokens.Issue(ctx, acct.ID, tokenrepo.KindAccess, now, now.Add(s.accessTTL))
	if err != nil {
		return nil, "", err
	}
	s.logger.Printf("identity: sign_in user_id=%s", acct.ID)
	s.emit(ctx, AuthEvent{DeviceID: access, UserID: acct.ID})
	return acct, access, nil
}

// SignOut revokes the access token and emits SignedOut for its device.
func (s *Service) SignOut(ctx context.Context, token string) error {
	tok, err := s.tokens.Lookup(ctx, token, tokenrepo.KindAccess)
	if err != nil {
		return err
	}
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return err
	}
	s.logger.Printf("identity: sign_out user_id=%s", tok.UserID)
	s.emit(ctx, AuthEvent{DeviceID: token})
	return nil
}

// CurrentUser returns the account bound to a valid access token. An expired
// token is revoked, which signs its device out.
func (s *Service) CurrentUser(ctx context.Context, token string) (*domain.Account, error) {
	_, acct, err := s.authenticated(ctx, token)
	return acct, err
}

// Subscribe registers fn for auth-state events until the returned function
// is called.
func (s *Service) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

// Reauthenticate confirms the password and refreshes the token's
// authentication time.
func (s *Service) Reauthenticate(ctx context.Context, token, password string) error {
	tok, acct, err := s.authenticated(ctx, token)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return s.tokens.Touch(ctx, tok.Token, s.now())
}

// UpdateEmail changes the sign-in address. The new address starts unverified.
func (s *Service) UpdateEmail(ctx context.Context, token, newEmail string) error {
	tok, acct, err := s.authenticated(ctx, token)
	if err != nil {
		return err
	}
	if !s.recent(tok) {
		return ErrRequiresRecentLogin
	}
	if !acct.EmailVerified {
		return ErrOperationNotAllowed
	}
	email, err := normalizeEmail(newEmail)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdateEmail(ctx, acct.ID, email); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return ErrEmailAlreadyInUse
		}
		return fmt.Errorf("update email: %w", err)
	}
	return nil
}

func (s *Service) UpdatePassword(ctx context.Context, token, newPassword string) error {
	tok, acct, err := s.authenticated(ctx, token)
	if err != nil {
		return err
	}
	if !s.recent(tok) {
		return ErrRequiresRecentLogin
	}
	if err := validatePassword(newPassword, s.passwordMin); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePasswordHash(ctx, acct.ID, string(hashed)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// SendVerificationEmail mails a confirmation link for the account's current
// address.
func (s *Service) SendVerificationEmail(ctx context.Context, token string) error {
	_, acct, err := s.authenticated(ctx, token)
	if err != nil {
		return err
	}
	now := s.now()
	code, err := s.tokens.Issue(ctx, acct.ID, tokenrepo.KindVerify, now, now.Add(s.verifyTTL))
	if err != nil {
		return err
	}
	link := s.baseURL + "/auth/verify?code=" + code
	if err := s.mailer.SendVerification(ctx, acct.Email, link); err != nil {
		s.logger.Printf("identity: send_verification user_id=%s error=%v", acct.ID, err)
		return fmt.Errorf("send verification: %w", err)
	}
	return nil
}

// VerifyEmail consumes a verification code.
func (s *Service) VerifyEmail(ctx context.Context, code string) error {
	tok, err := s.tokens.Lookup(ctx, code, tokenrepo.KindVerify)
	if err != nil {
		return err
	}
	if tok.Expired(s.now()) {
		_ = s.tokens.Revoke(ctx, code)
		return ErrInvalidToken
	}
	if err := s.accounts.SetEmailVerified(ctx, tok.UserID, true); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("verify email: %w", err)
	}
	_ = s.tokens.Revoke(ctx, code)
	return nil
}

func (s *Service) authenticated(ctx context.Context, token string) (*tokenrepo.Token, *domain.Account, error) {
	tok, err := s.tokens.Lookup(ctx, token, tokenrepo.KindAccess)
	if err != nil {
		return nil, nil, err
	}
	if tok.Expired(s.now()) {
		_ = s.tokens.Revoke(ctx, token)
		s.emit(ctx, AuthEvent{DeviceID: token})
		return nil, nil, ErrInvalidToken
	}
	acct, err := s.accounts.GetByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, err
	}
	return tok, acct, nil
}

func (s *Service) recent(tok *tokenrepo.Token) bool {
	return s.now().Sub(tok.AuthenticatedAt) <= s.recentLogin
}

func (s *Service) emit(ctx context.Context, ev AuthEvent) {
	s.mu.RLock()
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.RUnlock()
	for _, fn := range observers {
		fn(ctx, ev)
	}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// validatePassword counts characters as given; passwords are never trimmed.
func validatePassword(p string, min int) error {
	if len([]rune(p)) < min {
		return ErrWeakPassword
	}
	return nil
}
