package echo

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog/log"

	"github.com/pulsedash/pulsedash/domain"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  *domain.Identity `json:"user"`
	Token string           `json:"token"`
}

// RegisterHandler creates a local-credentials user.
func (a *DashboardAPI) RegisterHandler(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Malformed request body"})
	}

	user, err := a.auth.RegisterUser(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	// The JSON encoding of domain.User never includes the password hash.
	return c.JSON(http.StatusCreated, user)
}

// LoginHandler authenticates an email/password pair and issues a session.
func (a *DashboardAPI) LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Malformed request body"})
	}

	identity, token, err := a.auth.LoginWithCredentials(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	a.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, loginResponse{User: identity, Token: token})
}

// LogoutHandler revokes the current session.
func (a *DashboardAPI) LogoutHandler(c echo.Context) error {
	if token := extractToken(c); token != "" {
		if err := a.sessions.RevokeSession(c.Request().Context(), token); err != nil {
			log.Warn().Err(err).Msg("session revocation failed")
		}
	}
	a.clearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// OAuthBeginHandler starts the provider handshake. Gothic reads the
// provider name from the query string.
func (a *DashboardAPI) OAuthBeginHandler(c echo.Context) error {
	a.withProviderParam(c)
	gothic.BeginAuthHandler(c.Response(), c.Request())
	return nil
}

// OAuthCallbackHandler completes the provider handshake, normalizes the
// result into an assertion, signs the user in and redirects through the
// redirect policy.
func (a *DashboardAPI) OAuthCallbackHandler(c echo.Context) error {
	a.withProviderParam(c)

	gothUser, err := gothic.CompleteUserAuth(c.Response(), c.Request())
	if err != nil {
		log.Error().Err(err).Str("provider", c.Param("provider")).Msg("OAuth callback failed")
		return c.Redirect(http.StatusFound, a.auth.ResolveRedirect("/auth/error"))
	}

	assertion := domain.ProviderAssertion{
		Provider:  c.Param("provider"),
		Email:     gothUser.Email,
		Name:      gothUser.Name,
		AvatarURL: gothUser.AvatarURL,
	}

	_, token, err := a.auth.SignInWithProvider(c.Request().Context(), assertion)
	if err != nil {
		log.Error().Err(err).Str("provider", assertion.Provider).Msg("provider sign-in failed")
		return c.Redirect(http.StatusFound, a.auth.ResolveRedirect("/auth/error"))
	}

	a.setSessionCookie(c, token)

	target := c.QueryParam("callbackUrl")
	return c.Redirect(http.StatusFound, a.auth.ResolveRedirect(target))
}

// withProviderParam copies the route's :provider param into the query
// string, where gothic looks for it.
func (a *DashboardAPI) withProviderParam(c echo.Context) {
	q := c.Request().URL.Query()
	if q.Get("provider") == "" {
		q.Set("provider", c.Param("provider"))
		c.Request().URL.RawQuery = q.Encode()
	}
}

func (a *DashboardAPI) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *DashboardAPI) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
}
