package api

import (
	"net/http"
)

// RegisterHandler creates a local password account.
// Endpoint: POST /api/auth/register
// Authenticated: No
// Allowed Mimetype: application/json
func (a *Api) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if !validContentType(r, MimeTypeJSON) {
		writeJsonError(w, errorInvalidContentType)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJsonError(w, errorMissingFields)
		return
	}
	if err := ValidateEmail(req.Email); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if len(req.Password) < minPasswordLength {
		writeJsonError(w, errorPasswordComplexity)
		return
	}

	user, err := a.app.Register(req.Email, req.Password, req.Name)
	if err != nil {
		writeJsonError(w, a.mapCoreError(err))
		return
	}

	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusCreated,
			Code:    CodeOkRegistered,
			Message: "Account created",
		},
		Data: user,
	})
}
