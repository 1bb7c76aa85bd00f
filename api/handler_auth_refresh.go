package api

import (
	"net/http"
)

// RefreshHandler rotates a refresh token into a brand-new pair.
// Endpoint: POST /api/auth/refresh
// Authenticated: No (the refresh token is the credential)
// Allowed Mimetype: application/json
func (a *Api) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if !validContentType(r, MimeTypeJSON) {
		writeJsonError(w, errorInvalidContentType)
		return
	}

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.RefreshToken == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	pair, err := a.app.Refresh(req.RefreshToken)
	if err != nil {
		writeJsonError(w, a.mapCoreError(err))
		return
	}
	writeAuthResponse(w, pair)
}
