package api

import (
	"net/http"
)

// PasswordResetRequestHandler issues a reset token for the account, if it
// exists. The response is the same either way; outside production the raw
// token is included to aid testing.
// Endpoint: POST /api/auth/password-reset/request
// Authenticated: No
// Allowed Mimetype: application/json
func (a *Api) PasswordResetRequestHandler(w http.ResponseWriter, r *http.Request) {
	if !validContentType(r, MimeTypeJSON) {
		writeJsonError(w, errorInvalidContentType)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Email == "" {
		writeJsonError(w, errorMissingFields)
		return
	}
	if err := ValidateEmail(req.Email); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	token, err := a.app.RequestPasswordReset(req.Email)
	if err != nil {
		a.logger.Error("password reset request failed", "err", err)
		writeJsonError(w, errorInternal)
		return
	}

	if token != "" {
		writeJsonWithData(w, JsonWithData{
			JsonBasic: JsonBasic{
				Status:  http.StatusAccepted,
				Code:    CodeOkPasswordResetRequested,
				Message: "Password reset instructions will be sent to your email if it exists in our system",
			},
			Data: map[string]string{"token": token},
		})
		return
	}
	writeJsonOk(w, okPasswordResetRequested)
}

// PasswordResetConfirmHandler spends the reset token and sets the new
// password.
// Endpoint: POST /api/auth/password-reset/confirm
// Authenticated: No
// Allowed Mimetype: application/json
func (a *Api) PasswordResetConfirmHandler(w http.ResponseWriter, r *http.Request) {
	if !validContentType(r, MimeTypeJSON) {
		writeJsonError(w, errorInvalidContentType)
		return
	}

	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		writeJsonError(w, errorMissingFields)
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		writeJsonError(w, errorPasswordComplexity)
		return
	}

	if err := a.app.ResetPassword(req.Token, req.NewPassword); err != nil {
		writeJsonError(w, a.mapCoreError(err))
		return
	}
	writeJsonOk(w, okPasswordReset)
}
