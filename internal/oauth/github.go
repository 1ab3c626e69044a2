// Package oauth wraps the GitHub authorization-code flow used for social
// login.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GitHubUser is the portion of the GitHub /user API response we care about.
type GitHubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Location  string `json:"location"`
}

// GitHubEmail is one entry of the GitHub /user/emails API response.
type GitHubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// ErrNoVerifiedEmail is returned when no address is both primary and verified.
var ErrNoVerifiedEmail = errors.New("no verified primary email on GitHub account")

const githubAPIURL = "https://api.github.com"

// GitHubProvider drives the two-phase GitHub login: redirect the browser to
// the authorize endpoint, then exchange the returned code server-to-server
// and fetch the user's profile and email list.
type GitHubProvider struct {
	config *oauth2.Config
	apiURL string
}

// NewGitHubProvider creates a provider for the registered OAuth app.
// Scopes: read:user for the public profile, user:email for the address list.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiURL: githubAPIURL,
	}
}

// AuthURL returns the authorize URL to redirect the user to. Self-signup on
// GitHub itself is disallowed during the flow.
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("allow_signup", "false"),
	)
}

// Exchange trades the authorization code for an access token.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth: exchanging code: %w", err)
	}
	return token, nil
}

// FetchUser calls the GitHub /user API with the token.
func (p *GitHubProvider) FetchUser(ctx context.Context, token *oauth2.Token) (*GitHubUser, error) {
	var user GitHubUser
	if err := p.getJSON(ctx, token, "/user", &user); err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("oauth: GitHub returned an invalid user")
	}
	return &user, nil
}

// FetchVerifiedPrimaryEmail calls /user/emails and picks the address that is
// both primary and verified. Returns ErrNoVerifiedEmail when none qualifies.
func (p *GitHubProvider) FetchVerifiedPrimaryEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	var emails []GitHubEmail
	if err := p.getJSON(ctx, token, "/user/emails", &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", ErrNoVerifiedEmail
}

// getJSON performs an authenticated GET against the GitHub API. The oauth2
// client adds the Authorization header for us.
func (p *GitHubProvider) getJSON(ctx context.Context, token *oauth2.Token, path string, out interface{}) error {
	client := p.config.Client(ctx, token)

	resp, err := client.Get(p.apiURL + path)
	if err != nil {
		return fmt.Errorf("oauth: calling GitHub %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("oauth: GitHub %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("oauth: decoding GitHub %s response: %w", path, err)
	}
	return nil
}
