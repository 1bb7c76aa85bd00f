package api

import (
	"net/http"

	"github.com/credenzahq/credenza/core"
)

// AuthData is the authentication response payload.
//
// Example:
//
//	{
//	  "status": 200,
//	  "code": "ok_authentication",
//	  "message": "Authentication successful",
//	  "data": {
//	    "token_type": "Bearer",
//	    "access_token": "eyJhbGciOiJIUzI...",
//	    "refresh_token": "eyJhbGciOiJIUzI...",
//	    "expires_in": 900,
//	    "record": {"id": "...", "email": "...", "name": "...", "roles": ["USER"]}
//	  }
//	}
type AuthData struct {
	TokenType    string        `json:"token_type"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int           `json:"expires_in"`
	Record       core.AuthUser `json:"record"`
}

// writeAuthResponse writes a standardized authentication response
func writeAuthResponse(w http.ResponseWriter, pair *core.TokenPair) {
	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkAuthentication,
			Message: "Authentication successful",
		},
		Data: AuthData{
			TokenType:    pair.TokenType,
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			ExpiresIn:    pair.ExpiresIn,
			Record:       pair.User,
		},
	})
}
