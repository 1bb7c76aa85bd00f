package api

import (
	"net/http"
)

// TwoFactorSetupHandler provisions a fresh TOTP secret for the bearer and
// returns the otpauth URI for the authenticator app.
// Endpoint: POST /api/auth/2fa/setup
// Authenticated: Yes
// Allowed Mimetype: application/json
func (a *Api) TwoFactorSetupHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJsonError(w, errorInvalidToken)
		return
	}

	result, err := a.app.SetupTwoFactor(user.ID)
	if err != nil {
		writeJsonError(w, a.mapCoreError(err))
		return
	}
	a.auth.Invalidate(user.ID)

	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkTwoFactorSetup,
			Message: "Scan the QR code and confirm with a generated code",
		},
		Data: map[string]string{
			"otpauth_url": result.OtpauthURL,
			"secret":      result.Secret,
		},
	})
}

// TwoFactorVerifyHandler confirms the pending secret and enables the
// second factor.
// Endpoint: POST /api/auth/2fa/verify
// Authenticated: Yes
// Allowed Mimetype: application/json
func (a *Api) TwoFactorVerifyHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJsonError(w, errorInvalidToken)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Code == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	if err := a.app.VerifyTwoFactor(user.ID, req.Code); err != nil {
		writeJsonError(w, a.mapCoreError(err))
		return
	}
	a.auth.Invalidate(user.ID)
	writeJsonOk(w, okTwoFactorEnabled)
}

// TwoFactorDisableHandler turns the second factor off. A valid current
// code is required.
// Endpoint: POST /api/auth/2fa/disable
// Authenticated: Yes
// Allowed Mimetype: application/json
func (a *Api) TwoFactorDisableHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJsonError(w, errorInvalidToken)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Code == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	if err := a.app.DisableTwoFactor(user.ID, req.Code); err != nil {
		writeJsonError(w, a.mapCoreError(err))
		return
	}
	a.auth.Invalidate(user.ID)
	writeJsonOk(w, okTwoFactorDisabled)
}
