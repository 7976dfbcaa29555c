package types

import (
	"time"

	"github.com/karios/mission-control/constants"
)

type AdminNote struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"authorName"`
	NoteText   string    `json:"noteText"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Member struct {
	ID                 string       `json:"id"`
	DiscordID          string       `json:"discordId"`
	Username           string       `json:"username"`
	GlobalName         string       `json:"globalName"`
	Avatar             string       `json:"avatar"`
	DiscordEmail       string       `json:"discordEmail"`
	SubscriptionStatus string       `json:"subscriptionStatus"`
	StripeCustomerID   string       `json:"stripeCustomerId"`
	AssignedRoleIDs    []string     `json:"assignedRoleIds"`
	AdminNotes         []*AdminNote `json:"adminNotes"`
	CreatedAt          time.Time    `json:"createdAt"`
}

// DisplayName prefers the global name the member chose over the discord username.
func (m *Member) DisplayName() string {
	if m.GlobalName != "" {
		return m.GlobalName
	}
	return m.Username
}

func (m *Member) HasRole(roleID string) bool {
	for _, id := range m.AssignedRoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

type CategorizedMembers struct {
	AdminUsers   []*Member `json:"adminUsers"`
	WebsiteUsers []*Member `json:"websiteUsers"`
	BotUsers     []*Member `json:"botUsers"`
	OtherUsers   []*Member `json:"otherUsers"`
}

// Category is a pure selector over the snapshot, it never triggers a new fetch.
func (c *CategorizedMembers) Category(name string) []*Member {
	switch name {
	case constants.CategoryAdminUsers:
		return c.AdminUsers
	case constants.CategoryWebsiteUsers:
		return c.WebsiteUsers
	case constants.CategoryBotUsers:
		return c.BotUsers
	case constants.CategoryOtherUsers:
		return c.OtherUsers
	}
	return nil
}

func (c *CategorizedMembers) All() []*Member {
	all := make([]*Member, 0, len(c.AdminUsers)+len(c.WebsiteUsers)+len(c.BotUsers)+len(c.OtherUsers))
	all = append(all, c.AdminUsers...)
	all = append(all, c.WebsiteUsers...)
	all = append(all, c.BotUsers...)
	all = append(all, c.OtherUsers...)
	return all
}

type PagedMembers struct {
	Items       []*Member `json:"items"`
	CurrentPage int64     `json:"currentPage"`
	TotalPages  int64     `json:"totalPages"`
	TotalItems  int64     `json:"totalItems"`
}

type MembersPageFilter struct {
	Page  int64 `schema:"page"`
	Limit int64 `schema:"limit"`
}

type AnalyticsPerson struct {
	FirstSeen   time.Time `json:"firstSeen"`
	LastSeen    time.Time `json:"lastSeen"`
	City        string    `json:"city"`
	CountryCode string    `json:"countryCode"`
	Browser     string    `json:"browser"`
	OS          string    `json:"os"`
}

type AnalyticsEvent struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalyticsSnapshot is the external half of a member profile. Person and
// Events are nullable independently of the member record, absence is carried
// in Error instead of failing the whole profile fetch.
type AnalyticsSnapshot struct {
	Person *AnalyticsPerson  `json:"person"`
	Events []*AnalyticsEvent `json:"events"`
	Error  string            `json:"error,omitempty"`
}

type MemberProfile struct {
	Member           *Member            `json:"db"`
	Analytics        *AnalyticsSnapshot `json:"posthog"`
	AccountCreatedAt time.Time          `json:"accountCreatedAt,omitempty"`
}

type RoleActionStatus struct {
	InFlight  bool   `json:"inFlight"`
	ActionKey string `json:"actionKey,omitempty"`
	Message   string `json:"message,omitempty"`
	Kind      string `json:"kind"`
}

type SearchResult struct {
	Member   *Member `json:"member"`
	Distance int     `json:"distance"`
}
