package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	spotifylib "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// NewAppClient authenticates with the client-credentials flow. The
// resulting client can search and look up artists but carries no user
// context, so publishing playlists through it fails at the service side.
func NewAppClient(ctx context.Context, clientID, clientSecret, market string) (*Client, error) {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: client credentials: %w", err)
	}
	api := spotifylib.New(newRetryClient(spotifyauth.New().Client(ctx, token)))
	return NewClient(api, market), nil
}

// UserAuth drives the browser OAuth flow for user-scoped access. The
// state nonce guards the callback against forged redirects.
type UserAuth struct {
	auth        *spotifyauth.Authenticator
	redirectURL string
	state       string
	clients     chan *spotifylib.Client
}

// NewUserAuth prepares an OAuth flow with the scopes publishing needs.
func NewUserAuth(clientID, clientSecret, redirectURL string) *UserAuth {
	return &UserAuth{
		auth: spotifyauth.New(
			spotifyauth.WithRedirectURL(redirectURL),
			spotifyauth.WithScopes(spotifyauth.ScopeUserReadPrivate, spotifyauth.ScopePlaylistModifyPublic),
			spotifyauth.WithClientID(clientID),
			spotifyauth.WithClientSecret(clientSecret),
		),
		redirectURL: redirectURL,
		state:       uuid.NewString(),
		clients:     make(chan *spotifylib.Client, 1),
	}
}

// AuthURL returns the login page the user must visit in a browser.
func (u *UserAuth) AuthURL() string {
	return u.auth.AuthURL(u.state)
}

// Wait serves the OAuth callback until a token arrives or ctx is done,
// then returns a user-scoped catalog client.
func (u *UserAuth) Wait(ctx context.Context, market string) (*Client, error) {
	redirect, err := url.Parse(u.redirectURL)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid redirect url: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, u.completeAuth)
	srv := &http.Server{
		Addr:              redirect.Host,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("oauth callback server failed")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	select {
	case api := <-u.clients:
		return NewClient(api, market), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("spotify adapter: login canceled: %w", ctx.Err())
	}
}

// completeAuth exchanges the authorization code for a token and hands an
// authenticated client back to Wait.
func (u *UserAuth) completeAuth(w http.ResponseWriter, r *http.Request) {
	token, err := u.auth.Token(r.Context(), u.state, r)
	if err != nil {
		http.Error(w, "Couldn't get token", http.StatusForbidden)
		logrus.WithError(err).Error("spotify token exchange failed")
		return
	}
	if st := r.FormValue("state"); st != u.state {
		http.NotFound(w, r)
		logrus.WithField("state", st).Error("oauth state mismatch")
		return
	}

	fmt.Fprint(w, "Login completed! You can now close this window.")
	u.clients <- spotifylib.New(newRetryClient(u.auth.Client(r.Context(), token)))
}
