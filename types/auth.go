package types

const (
	SessionStateUnauthenticated = 0
	SessionStateAuthenticating  = 1
	SessionStateAuthenticated   = 2
)

type AdminIdentity struct {
	ID        string `json:"id"`
	DiscordID string `json:"discordId"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	IsOwner   bool   `json:"isOwner"`
}

// Session is a read-only snapshot of the session store state.
type Session struct {
	Token     string         `json:"-"`
	AdminUser *AdminIdentity `json:"adminUser"`
	State     int64          `json:"state"`
}

// IsLoggedIn is true only when both the token and the resolved identity are present.
func (s Session) IsLoggedIn() bool {
	return s.State == SessionStateAuthenticated && s.Token != "" && s.AdminUser != nil
}

func (s Session) IsOwner() bool {
	return s.AdminUser != nil && s.AdminUser.IsOwner
}
