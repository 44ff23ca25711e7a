package models

import "time"

type Account struct {
	ID           int    `json:"id"`
	CompanyName  string `json:"company_name"`
	GSTIN        string `json:"gstin"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // не отдаём наружу
	RoleID       int    `json:"role_id"`

	// outstanding reset ticket: at most one per account, both columns
	// are cleared together on successful completion
	ResetTokenDigest *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
}

// HasResetTicket reports whether the account currently stores a ticket,
// expired or not. Expiry is the service's call, not the model's.
func (a *Account) HasResetTicket() bool {
	return a.ResetTokenDigest != nil && a.ResetTokenExpiry != nil
}
