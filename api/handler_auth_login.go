package api

import (
	"net/http"
)

// LoginHandler handles password-based authentication. When the account has
// a second factor enabled and no code was supplied, the response asks for
// one instead of issuing tokens.
// Endpoint: POST /api/auth/login
// Authenticated: No
// Allowed Mimetype: application/json
func (a *Api) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if !validContentType(r, MimeTypeJSON) {
		writeJsonError(w, errorInvalidContentType)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		TotpCode string `json:"totp_code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	result, err := a.app.Login(req.Email, req.Password, req.TotpCode)
	if err != nil {
		writeJsonError(w, a.mapCoreError(err))
		return
	}

	if result.RequiresTwoFactor {
		writeJsonWithData(w, JsonWithData{
			JsonBasic: JsonBasic{
				Status:  http.StatusOK,
				Code:    CodeOkTwoFactorRequired,
				Message: "Two factor code required",
			},
		})
		return
	}

	writeAuthResponse(w, result.Pair)
}
