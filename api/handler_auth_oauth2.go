package api

import (
	"net/http"

	"github.com/credenzahq/credenza/oauth2"
)

// OAuth2LoginHandler exchanges an authorization code with the named
// provider and logs the resolved account in.
// Endpoint: POST /api/auth/oauth2
// Authenticated: No
// Allowed Mimetype: application/json
func (a *Api) OAuth2LoginHandler(w http.ResponseWriter, r *http.Request) {
	if !validContentType(r, MimeTypeJSON) {
		writeJsonError(w, errorInvalidContentType)
		return
	}

	var req struct {
		Provider     string `json:"provider"`
		Code         string `json:"code"`
		CodeVerifier string `json:"code_verifier"`
		RedirectURI  string `json:"redirect_uri"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}
	if req.Provider == "" || req.Code == "" || req.RedirectURI == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	cfg := a.app.Config()
	provider, ok := cfg.OAuth2Providers[req.Provider]
	if !ok {
		writeJsonError(w, errorInvalidOAuth2Provider)
		return
	}
	if provider.Name == "" {
		provider.Name = req.Provider
	}

	profile, err := oauth2.Exchange(r.Context(), provider, req.Code, req.CodeVerifier, req.RedirectURI)
	if err != nil {
		a.logger.Debug("oauth2 exchange failed", "provider", req.Provider, "err", err)
		writeJsonError(w, errorOAuth2ExchangeFailed)
		return
	}

	pair, err := a.app.ValidateOAuthLogin(profile)
	if err != nil {
		writeJsonError(w, a.mapCoreError(err))
		return
	}
	writeAuthResponse(w, pair)
}

// OAuth2ProviderInfo contains the provider details needed for the
// client-side authorization flow.
type OAuth2ProviderInfo struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	AuthURL     string   `json:"auth_url"`
	Scopes      []string `json:"scopes"`
}

// ListOAuth2ProvidersHandler returns the configured OAuth2 providers.
// Endpoint: GET /api/auth/oauth2/providers
// Authenticated: No
func (a *Api) ListOAuth2ProvidersHandler(w http.ResponseWriter, r *http.Request) {
	cfg := a.app.Config()

	providers := make([]OAuth2ProviderInfo, 0, len(cfg.OAuth2Providers))
	for name, p := range cfg.OAuth2Providers {
		if p.ClientID == "" {
			continue // not configured for this deployment
		}
		providers = append(providers, OAuth2ProviderInfo{
			Name:        name,
			DisplayName: p.DisplayName,
			AuthURL:     p.AuthURL,
			Scopes:      p.Scopes,
		})
	}

	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkOAuth2ProvidersList,
			Message: "OAuth2 providers",
		},
		Data: map[string]any{"providers": providers},
	})
}
