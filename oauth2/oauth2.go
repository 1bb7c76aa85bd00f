package oauth2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/credenzahq/credenza/config"
	"golang.org/x/oauth2"
)

// exchangeTimeout bounds the token exchange and userinfo calls so an
// unresponsive provider cannot hang the login request.
const exchangeTimeout = 10 * time.Second

var (
	ErrUnknownProvider = errors.New("unknown oauth2 provider")
	ErrMissingSubject  = errors.New("provider returned no account id")
)

// ExternalProfile is the normalized identity extracted from a provider's
// userinfo endpoint. ProviderAccountID is the provider's stable subject;
// Email may be empty when the provider does not disclose one.
type ExternalProfile struct {
	Provider          string
	ProviderAccountID string
	Email             string
	Name              string
	AvatarURL         string
	AccessToken       string
	RefreshToken      string
}

// Exchange trades an authorization code for tokens and fetches the
// normalized profile from the provider's userinfo endpoint.
func Exchange(ctx context.Context, provider config.OAuth2Provider, code, codeVerifier, redirectURI string) (*ExternalProfile, error) {
	conf := oauth2.Config{
		ClientID:     provider.ClientID,
		ClientSecret: provider.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       provider.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  provider.AuthURL,
			TokenURL: provider.TokenURL,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	var opts []oauth2.AuthCodeOption
	if codeVerifier != "" {
		opts = append(opts, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	}
	token, err := conf.Exchange(ctx, code, opts...)
	if err != nil {
		return nil, fmt.Errorf("oauth2: token exchange failed: %w", err)
	}

	client := conf.Client(ctx, token)
	resp, err := client.Get(provider.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("oauth2: userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth2: userinfo returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("oauth2: reading userinfo body: %w", err)
	}

	profile, err := ProfileFromUserInfo(provider.Name, body)
	if err != nil {
		return nil, err
	}
	profile.AccessToken = token.AccessToken
	profile.RefreshToken = token.RefreshToken
	return profile, nil
}

// ProfileFromUserInfo maps a provider's raw userinfo JSON to the normalized
// profile. Google only forwards the email when the provider marked it
// verified; an unverified address is treated as absent.
func ProfileFromUserInfo(providerName string, data []byte) (*ExternalProfile, error) {
	switch providerName {
	case config.OAuth2ProviderGoogle:
		return googleProfile(data)
	case config.OAuth2ProviderFacebook:
		return facebookProfile(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, providerName)
	}
}

func googleProfile(data []byte) (*ExternalProfile, error) {
	var raw struct {
		Sub           string `json:"sub"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("oauth2: decoding google userinfo: %w", err)
	}
	if raw.Sub == "" {
		return nil, ErrMissingSubject
	}
	profile := &ExternalProfile{
		Provider:          config.OAuth2ProviderGoogle,
		ProviderAccountID: raw.Sub,
		Name:              raw.Name,
		AvatarURL:         raw.Picture,
	}
	if raw.EmailVerified {
		profile.Email = raw.Email
	}
	return profile, nil
}

func facebookProfile(data []byte) (*ExternalProfile, error) {
	var raw struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("oauth2: decoding facebook userinfo: %w", err)
	}
	if raw.ID == "" {
		return nil, ErrMissingSubject
	}
	return &ExternalProfile{
		Provider:          config.OAuth2ProviderFacebook,
		ProviderAccountID: raw.ID,
		Name:              raw.Name,
		Email:             raw.Email,
		AvatarURL:         raw.Picture.Data.URL,
	}, nil
}
