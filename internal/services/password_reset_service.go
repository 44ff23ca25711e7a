package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gstbooks/internal/models"
	"gstbooks/internal/ratelimit"
	"gstbooks/internal/repositories"
	"gstbooks/internal/utils"
)

const (
	resetTicketTTL    = 24 * time.Hour
	minPasswordLength = 8
)

var (
	// ErrInvalidToken covers "never existed", "wrong digest" and "already
	// consumed" alike; callers must not be able to tell them apart.
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrExpiredToken       = errors.New("token expired")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrNotificationFailed = errors.New("failed to send reset email")
)

// ErrRateLimited tells the caller when the identity may try again.
type ErrRateLimited struct {
	RetryAfter time.Duration
}

func (e ErrRateLimited) Error() string {
	return fmt.Sprintf("too many reset requests, retry after %s", e.RetryAfter.Truncate(time.Second))
}

type PasswordResetService interface {
	RequestReset(ctx context.Context, email string) error
	VerifyToken(ctx context.Context, secret string) (string, error)
	CompleteReset(ctx context.Context, secret, newPassword string) error

	// back-office helpers
	ResetStatus(ctx context.Context, accountID int) (*models.ResetStatusResponse, error)
	RevokeTicket(ctx context.Context, accountID int) error
}

type passwordResetService struct {
	accounts repositories.AccountRepository
	limiter  ratelimit.Limiter
	notifier Notifier
	auth     AuthService
	baseURL  string
	now      func() time.Time
}

func NewPasswordResetService(
	accounts repositories.AccountRepository,
	limiter ratelimit.Limiter,
	notifier Notifier,
	auth AuthService,
	resetBaseURL string,
) PasswordResetService {
	return &passwordResetService{
		accounts: accounts,
		limiter:  limiter,
		notifier: notifier,
		auth:     auth,
		baseURL:  resetBaseURL,
		now:      time.Now,
	}
}

// RequestReset runs the admission gate before the account lookup, keyed by the
// submitted email, so unknown emails burn rate budget too and the endpoint
// cannot be used to enumerate accounts at unlimited rate.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return fmt.Errorf("email is required")
	}

	dec, err := s.limiter.CheckAndRecord(ctx, email)
	if err != nil {
		log.Printf("[password-reset][request] limiter failed for %q: %v", email, err)
		return err
	}
	if !dec.Allowed {
		return ErrRateLimited{RetryAfter: dec.RetryAfter}
	}

	account, err := s.accounts.GetByEmail(email)
	if err != nil || account == nil {
		// don't leak existence
		log.Printf("[password-reset][request] %q: account not found or error: %v", email, err)
		return nil
	}

	secret, digest, err := utils.NewResetSecret()
	if err != nil {
		return err
	}
	if err := s.accounts.SetResetTicket(account.ID, digest, s.now().Add(resetTicketTTL)); err != nil {
		return err
	}

	link := utils.BuildResetLink(s.baseURL, secret)
	if err := s.notifier.SendPasswordResetEmail(account.Email, link); err != nil {
		// the one deliberate hole in anti-enumeration: a real account with an
		// undeliverable email has no way to finish the flow, so we say so
		log.Printf("[password-reset][request] notify %s failed: %v", account.Email, err)
		return ErrNotificationFailed
	}
	return nil
}

// VerifyToken returns the account email for display on the confirmation page.
// It never returns the digest or the secret.
func (s *passwordResetService) VerifyToken(ctx context.Context, secret string) (string, error) {
	account, err := s.lookupBySecret(secret)
	if err != nil {
		return "", err
	}
	return account.Email, nil
}

func (s *passwordResetService) CompleteReset(ctx context.Context, secret, newPassword string) error {
	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	// re-run the full lookup: time may have passed since VerifyToken and no
	// session is held between the two calls
	account, err := s.lookupBySecret(secret)
	if err != nil {
		return err
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	// credential update and ticket clear happen in one statement; once this
	// returns nil the same secret can never be consumed again
	if err := s.accounts.CompleteReset(account.ID, hash); err != nil {
		return err
	}
	log.Printf("[password-reset][complete] accountID=%d credential updated, ticket consumed", account.ID)
	return nil
}

func (s *passwordResetService) lookupBySecret(secret string) (*models.Account, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrInvalidToken
	}

	digest := utils.DigestResetSecret(secret)
	account, err := s.accounts.GetByResetDigest(digest)
	if err != nil || account == nil {
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			log.Printf("[password-reset][lookup] store error: %v", err)
		}
		return nil, ErrInvalidToken
	}
	if !account.HasResetTicket() || !utils.SecureCompareDigests(*account.ResetTokenDigest, digest) {
		return nil, ErrInvalidToken
	}
	if s.isExpired(account, s.now()) {
		log.Printf("[password-reset][lookup] accountID=%d ticket expired at %s", account.ID, account.ResetTokenExpiry.Format(time.RFC3339))
		return nil, ErrExpiredToken
	}
	return account, nil
}

// isExpired treats a stored but stale ticket as absent.
func (s *passwordResetService) isExpired(account *models.Account, now time.Time) bool {
	return account.ResetTokenExpiry == nil || now.After(*account.ResetTokenExpiry)
}

func (s *passwordResetService) ResetStatus(ctx context.Context, accountID int) (*models.ResetStatusResponse, error) {
	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	resp := &models.ResetStatusResponse{
		AccountID: account.ID,
		HasTicket: account.HasResetTicket(),
	}
	if resp.HasTicket {
		resp.Expired = s.isExpired(account, s.now())
		resp.ExpiresAt = account.ResetTokenExpiry.Format(time.RFC3339)
	}
	return resp, nil
}

func (s *passwordResetService) RevokeTicket(ctx context.Context, accountID int) error {
	if _, err := s.accounts.GetByID(accountID); err != nil {
		return err
	}
	log.Printf("[password-reset][revoke] accountID=%d ticket revoked by admin", accountID)
	return s.accounts.ClearResetTicket(accountID)
}
