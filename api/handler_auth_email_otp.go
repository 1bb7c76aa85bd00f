package api

import (
	"net/http"
)

// EmailOtpRequestHandler issues an email verification code for the
// account, if it exists and is not yet verified.
// Endpoint: POST /api/auth/email-otp/request
// Authenticated: No
// Allowed Mimetype: application/json
func (a *Api) EmailOtpRequestHandler(w http.ResponseWriter, r *http.Request) {
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

	otp, err := a.app.RequestEmailOtp(req.Email)
	if err != nil {
		a.logger.Error("email otp request failed", "err", err)
		writeJsonError(w, errorInternal)
		return
	}

	if otp != "" {
		writeJsonWithData(w, JsonWithData{
			JsonBasic: JsonBasic{
				Status:  http.StatusAccepted,
				Code:    CodeOkOtpRequested,
				Message: "A verification code will be sent to your email if it exists in our system",
			},
			Data: map[string]string{"otp": otp},
		})
		return
	}
	writeJsonOk(w, okOtpRequested)
}

// EmailOtpConfirmHandler spends the code and marks the email verified.
// Endpoint: POST /api/auth/email-otp/confirm
// Authenticated: No
// Allowed Mimetype: application/json
func (a *Api) EmailOtpConfirmHandler(w http.ResponseWriter, r *http.Request) {
	if !validContentType(r, MimeTypeJSON) {
		writeJsonError(w, errorInvalidContentType)
		return
	}

	var req struct {
		Email string `json:"email"`
		Otp   string `json:"otp"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Email == "" || req.Otp == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	if err := a.app.VerifyEmailOtp(req.Email, req.Otp); err != nil {
		writeJsonError(w, a.mapCoreError(err))
		return
	}
	writeJsonOk(w, okEmailVerified)
}
