package api

import (
	"net/http"

	"github.com/credenzahq/credenza/core"
)

// MeHandler returns the sanitized record of the bearer.
// Endpoint: GET /api/auth/me
// Authenticated: Yes
func (a *Api) MeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJsonError(w, errorInvalidToken)
		return
	}

	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkAuthentication,
			Message: "Authenticated",
		},
		Data: core.NewAuthUser(user),
	})
}
