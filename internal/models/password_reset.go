package models

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type VerifyResetTokenRequest struct {
	Token string `json:"token"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type ResetStatusResponse struct {
	AccountID int    `json:"account_id"`
	HasTicket bool   `json:"has_ticket"`
	Expired   bool   `json:"expired,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
}
