package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
	"github.com/markbates/goth/providers/linkedin"
	"github.com/markbates/goth/providers/twitterv2"
	"github.com/rs/zerolog/log"

	"github.com/pulsedash/pulsedash/config"
)

// InitProviders configures the Goth OAuth providers from config. Providers
// without credentials are skipped so a partially configured deployment
// still starts.
func InitProviders(cfg *config.ServerConfig) {
	// Gothic keeps its own gorilla/sessions store for the handshake state,
	// separate from the application session token.
	gothStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	gothStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = gothStore

	callback := func(provider string) string {
		return cfg.BaseURL + "/auth/" + provider + "/callback"
	}

	var providers []goth.Provider
	if cfg.GoogleClientID != "" {
		providers = append(providers, google.New(
			cfg.GoogleClientID, cfg.GoogleClientSecret, callback("google"),
			"email", "profile",
		))
	}
	if cfg.FacebookClientID != "" {
		providers = append(providers, facebook.New(
			cfg.FacebookClientID, cfg.FacebookClientSecret, callback("facebook"),
			"email", "pages_show_list", "pages_read_engagement", "ads_read",
		))
	}
	if cfg.LinkedInClientID != "" {
		providers = append(providers, linkedin.New(
			cfg.LinkedInClientID, cfg.LinkedInClientSecret, callback("linkedin"),
			"r_liteprofile", "r_emailaddress", "w_member_social",
		))
	}
	if cfg.TwitterClientID != "" {
		providers = append(providers, twitterv2.New(
			cfg.TwitterClientID, cfg.TwitterClientSecret, callback("twitter"),
		))
	}

	if len(providers) == 0 {
		log.Warn().Msg("No OAuth provider credentials configured; external sign-in disabled")
		return
	}

	goth.UseProviders(providers...)
	log.Info().Int("count", len(providers)).Msg("OAuth providers initialized")
}
