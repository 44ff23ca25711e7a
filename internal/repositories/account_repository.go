package repositories

import (
	"database/sql"
	"time"

	"gstbooks/internal/models"
)

type AccountRepository interface {
	GetByID(id int) (*models.Account, error)
	GetByEmail(email string) (*models.Account, error)

	// reset ticket helpers
	SetResetTicket(accountID int, digest string, expiresAt time.Time) error
	GetByResetDigest(digest string) (*models.Account, error)
	CompleteReset(accountID int, newPasswordHash string) error
	ClearResetTicket(accountID int) error
}

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{DB: db}
}

func (r *accountRepository) GetByID(id int) (*models.Account, error) {
	const q = `
		SELECT id, company_name, gstin, email, password_hash, role_id,
		       password_reset_token, reset_token_expires
		FROM accounts
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRow(q, id))
}

func (r *accountRepository) GetByEmail(email string) (*models.Account, error) {
	const q = `
		SELECT id, company_name, gstin, email, password_hash, role_id,
		       password_reset_token, reset_token_expires
		FROM accounts
		WHERE LOWER(email) = LOWER($1)
	`
	return r.scanOne(r.DB.QueryRow(q, email))
}

// SetResetTicket overwrites whatever ticket the account held before; a single
// UPDATE keeps the overwrite atomic, so concurrent issuance is last-writer-wins.
func (r *accountRepository) SetResetTicket(accountID int, digest string, expiresAt time.Time) error {
	const q = `
		UPDATE accounts
		SET password_reset_token = $2, reset_token_expires = $3
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, accountID, digest, expiresAt)
	return err
}

func (r *accountRepository) GetByResetDigest(digest string) (*models.Account, error) {
	const q = `
		SELECT id, company_name, gstin, email, password_hash, role_id,
		       password_reset_token, reset_token_expires
		FROM accounts
		WHERE password_reset_token = $1
	`
	return r.scanOne(r.DB.QueryRow(q, digest))
}

// CompleteReset sets the new credential and clears the ticket in one statement:
// the ticket cannot survive a successful password change.
func (r *accountRepository) CompleteReset(accountID int, newPasswordHash string) error {
	const q = `
		UPDATE accounts
		SET password_hash = $2,
		    password_reset_token = NULL,
		    reset_token_expires = NULL
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, accountID, newPasswordHash)
	return err
}

func (r *accountRepository) ClearResetTicket(accountID int) error {
	const q = `
		UPDATE accounts
		SET password_reset_token = NULL, reset_token_expires = NULL
		WHERE id = $1
	`
	_, err := r.DB.Exec(q, accountID)
	return err
}

func (r *accountRepository) scanOne(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	var (
		roleID sql.NullInt64
		rtd    sql.NullString
		rte    sql.NullTime
	)
	err := row.Scan(
		&a.ID, &a.CompanyName, &a.GSTIN, &a.Email, &a.PasswordHash, &roleID,
		&rtd, &rte,
	)
	if err != nil {
		return nil, err
	}
	if roleID.Valid {
		a.RoleID = int(roleID.Int64)
	}
	if rtd.Valid {
		s := rtd.String
		a.ResetTokenDigest = &s
	}
	if rte.Valid {
		t := rte.Time
		a.ResetTokenExpiry = &t
	}
	return a, nil
}
