package api

import (
	"encoding/json"
	"net/http"
)

// Standard response codes
const (
	// oks
	CodeOkAuthentication         = "ok_authentication"
	CodeOkRegistered             = "ok_registered"
	CodeOkPasswordResetRequested = "ok_password_reset_requested"
	CodeOkPasswordReset          = "ok_password_reset"
	CodeOkOtpRequested           = "ok_otp_requested"
	CodeOkEmailVerified          = "ok_email_verified"
	CodeOkTwoFactorSetup         = "ok_two_factor_setup"
	CodeOkTwoFactorEnabled       = "ok_two_factor_enabled"
	CodeOkTwoFactorDisabled      = "ok_two_factor_disabled"
	CodeOkTwoFactorRequired      = "ok_two_factor_required"
	CodeOkOAuth2ProvidersList    = "ok_oauth2_providers_list"

	// errors
	CodeErrorInvalidRequest             = "err_invalid_input"
	CodeErrorMissingFields              = "err_missing_fields"
	CodeErrorInvalidCredentials         = "err_invalid_credentials"
	CodeErrorEmailConflict              = "err_email_conflict"
	CodeErrorNotFound                   = "err_not_found"
	CodeErrorInvalidToken               = "err_invalid_token"
	CodeErrorInvalidOrExpiredToken      = "err_invalid_or_expired_token"
	CodeErrorInvalidCode                = "err_invalid_code"
	CodeErrorTwoFactorNotConfigured     = "err_two_factor_not_configured"
	CodeErrorNoAuthHeader               = "err_no_auth_header"
	CodeErrorInvalidTokenFormat         = "err_invalid_token_format"
	CodeErrorTokenGeneration            = "err_token_generation"
	CodeErrorInvalidOAuth2Provider      = "err_invalid_oauth2_provider"
	CodeErrorOAuth2ExchangeFailed       = "err_oauth2_exchange_failed"
	CodeErrorInternal                   = "err_internal"
	CodeErrorInvalidContentType         = "err_invalid_content_type"
	CodeErrorPasswordComplexity         = "err_password_complexity"
)

// precomputeBasicResponse marshals a short response once at package init so
// request handling just writes the stored bytes.
func precomputeBasicResponse(status int, code, message string) jsonResponse {
	basic := JsonBasic{
		Status:  status,
		Code:    code,
		Message: message,
	}
	body, _ := json.Marshal(basic)
	return jsonResponse{status: status, body: body}
}

// Precomputed error and ok responses with status codes
var (
	// errors
	errorInvalidRequest         = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidRequest, "The request contains invalid data")
	errorMissingFields          = precomputeBasicResponse(http.StatusBadRequest, CodeErrorMissingFields, "Required fields are missing")
	errorInvalidCredentials     = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidCredentials, "Invalid credentials provided")
	errorEmailConflict          = precomputeBasicResponse(http.StatusConflict, CodeErrorEmailConflict, "Email address is already registered")
	errorNotFound               = precomputeBasicResponse(http.StatusNotFound, CodeErrorNotFound, "Requested resource not found")
	errorInvalidToken           = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidToken, "Invalid authentication token")
	errorInvalidOrExpiredToken  = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidOrExpiredToken, "Token is invalid or has expired")
	errorInvalidCode            = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidCode, "Invalid verification code")
	errorTwoFactorNotConfigured = precomputeBasicResponse(http.StatusBadRequest, CodeErrorTwoFactorNotConfigured, "Two factor authentication is not configured")
	errorNoAuthHeader           = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorNoAuthHeader, "Authorization header is required")
	errorInvalidTokenFormat     = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidTokenFormat, "Invalid authorization token format")
	errorTokenGeneration        = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorTokenGeneration, "Failed to generate authentication token")
	errorInvalidOAuth2Provider  = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidOAuth2Provider, "Invalid OAuth2 provider specified")
	errorOAuth2ExchangeFailed   = precomputeBasicResponse(http.StatusBadRequest, CodeErrorOAuth2ExchangeFailed, "Failed to authenticate with the OAuth2 provider")
	errorInternal               = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorInternal, "Internal server error")
	errorInvalidContentType     = precomputeBasicResponse(http.StatusUnsupportedMediaType, CodeErrorInvalidContentType, "Unsupported media type")
	errorPasswordComplexity     = precomputeBasicResponse(http.StatusBadRequest, CodeErrorPasswordComplexity, "Password must be at least 8 characters")

	// oks
	okPasswordResetRequested = precomputeBasicResponse(http.StatusAccepted, CodeOkPasswordResetRequested, "Password reset instructions will be sent to your email if it exists in our system")
	okPasswordReset          = precomputeBasicResponse(http.StatusOK, CodeOkPasswordReset, "Password reset successfully")
	okOtpRequested           = precomputeBasicResponse(http.StatusAccepted, CodeOkOtpRequested, "A verification code will be sent to your email if it exists in our system")
	okEmailVerified          = precomputeBasicResponse(http.StatusOK, CodeOkEmailVerified, "Email verified successfully")
	okTwoFactorEnabled       = precomputeBasicResponse(http.StatusOK, CodeOkTwoFactorEnabled, "Two factor authentication enabled")
	okTwoFactorDisabled      = precomputeBasicResponse(http.StatusOK, CodeOkTwoFactorDisabled, "Two factor authentication disabled")
)

// For successful precomputed responses
func writeJsonOk(w http.ResponseWriter, resp jsonResponse) {
	setHeaders(w, HeadersJson)
	w.WriteHeader(resp.status)
	w.Write(resp.body)
}

// writeJsonError writes a precomputed JSON error response
func writeJsonError(w http.ResponseWriter, resp jsonResponse) {
	setHeaders(w, HeadersJson)
	w.WriteHeader(resp.status)
	w.Write(resp.body)
}
