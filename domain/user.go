package domain

import "time"

// Platform identifies a connected marketing platform.
type Platform string

const (
	PlatformGoogle   Platform = "google"
	PlatformFacebook Platform = "facebook"
	PlatformLinkedIn Platform = "linkedin"
	PlatformTwitter  Platform = "twitter"
)

// KnownPlatform reports whether p is one of the supported marketing platforms.
func KnownPlatform(p Platform) bool {
	switch p {
	case PlatformGoogle, PlatformFacebook, PlatformLinkedIn, PlatformTwitter:
		return true
	}
	return false
}

// ProviderCredentials is the pseudo-provider name for local email/password login.
const ProviderCredentials = "credentials"

// Connection holds the tokens and capability flags for one connected platform.
type Connection struct {
	AccessToken  string   `bson:"access_token,omitempty" json:"accessToken,omitempty"`
	RefreshToken string   `bson:"refresh_token,omitempty" json:"refreshToken,omitempty"`
	Analytics    bool     `bson:"analytics,omitempty" json:"analytics,omitempty"`
	Ads          bool     `bson:"ads,omitempty" json:"ads,omitempty"`
	Pages        []string `bson:"pages,omitempty" json:"pages,omitempty"`
}

// Widget is a single dashboard widget descriptor.
type Widget struct {
	Type     string `bson:"type" json:"type"`
	Position int    `bson:"position" json:"position"`
	Visible  bool   `bson:"visible" json:"visible"`
}

// DashboardPreferences stores the user's dashboard layout.
type DashboardPreferences struct {
	Layout  string   `bson:"layout" json:"layout"`
	Widgets []Widget `bson:"widgets" json:"widgets"`
}

// DefaultDashboardPreferences returns the preferences assigned to every new
// user: all four widgets visible, in their default order.
func DefaultDashboardPreferences() DashboardPreferences {
	return DashboardPreferences{
		Layout: "default",
		Widgets: []Widget{
			{Type: "analytics", Position: 0, Visible: true},
			{Type: "social", Position: 1, Visible: true},
			{Type: "ads", Position: 2, Visible: true},
			{Type: "content", Position: 3, Visible: true},
		},
	}
}

// User represents a dashboard user. Users are created on first external
// sign-in or on explicit registration and are never hard-deleted.
type User struct {
	ID           string                `bson:"_id,omitempty" json:"id"`
	Name         string                `bson:"name" json:"name"`
	Email        string                `bson:"email" json:"email"`
	Image        string                `bson:"image,omitempty" json:"image,omitempty"`
	PasswordHash string                `bson:"password_hash,omitempty" json:"-"`
	Providers    []string              `bson:"providers" json:"providers"`
	Connections  map[string]Connection `bson:"connections,omitempty" json:"connections,omitempty"`
	Preferences  DashboardPreferences  `bson:"dashboard_preferences" json:"dashboardPreferences"`
	CreatedAt    time.Time             `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time             `bson:"updated_at" json:"updatedAt"`
}

// HasProvider reports whether the user already signed in with the named provider.
func (u *User) HasProvider(provider string) bool {
	for _, p := range u.Providers {
		if p == provider {
			return true
		}
	}
	return false
}

// Identity is the minimal authenticated view of a user returned by the
// authentication paths.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// ProviderAssertion is the normalized result of an external OAuth sign-in.
type ProviderAssertion struct {
	Provider  string
	Email     string
	Name      string
	AvatarURL string
}
