package service

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/gofrs/uuid"
	"github.com/karios/mission-control/types"
	"github.com/karios/mission-control/utils"
)

const noAnalyticsMessage = "No analytics data available for this member."

// memberView is the cached state behind one open member-detail view. opToken
// identifies the most recent fetch, responses carrying an older token are
// dropped instead of overwriting newer state.
type memberView struct {
	profile *types.MemberProfile
	opToken uuid.UUID
}

// ProfileAggregator fetches the composite member document, the internal
// record joined with the external analytics snapshot. The analytics half is
// independently nullable and never fails the overall fetch.
type ProfileAggregator struct {
	backend  Backend
	sessions *SessionStore

	mu    sync.Mutex
	views map[string]*memberView
}

func NewProfileAggregator(backend Backend, sessions *SessionStore) *ProfileAggregator {
	return &ProfileAggregator{
		backend:  backend,
		sessions: sessions,
		views:    make(map[string]*memberView),
	}
}

// Fetch reads the member profile from the main app API and replaces the
// cached view wholesale. If the view was released or refetched while the
// request was outstanding, the stale response is returned to the caller but
// not stored.
func (p *ProfileAggregator) Fetch(ctx context.Context, memberID string) (*types.MemberProfile, error) {
	token, err := p.sessions.RequireToken()
	if err != nil {
		return nil, err
	}

	opToken, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	view, ok := p.views[memberID]
	if !ok {
		view = &memberView{}
		p.views[memberID] = view
	}
	view.opToken = opToken
	p.mu.Unlock()

	profile, err := p.backend.GetMemberProfile(ctx, token, memberID)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		p.sessions.InvalidateOn(err)
		return nil, err
	}

	decorateProfile(profile)

	p.mu.Lock()
	defer p.mu.Unlock()
	view, ok = p.views[memberID]
	if !ok || view.opToken != opToken {
		utils.LogCtx(ctx).WithField("memberId", memberID).Debug("dropping stale profile response")
		return profile, nil
	}
	view.profile = profile
	return profile, nil
}

// decorateProfile fills the client-side parts of a fetched profile: the
// analytics placeholder and the account creation time derived from the
// discord snowflake.
func decorateProfile(profile *types.MemberProfile) {
	if profile.Analytics == nil {
		profile.Analytics = &types.AnalyticsSnapshot{Error: noAnalyticsMessage}
	} else if profile.Analytics.Person == nil && profile.Analytics.Error == "" {
		profile.Analytics.Error = noAnalyticsMessage
	}

	if profile.Member != nil && profile.Member.DiscordID != "" {
		if createdAt, err := discordgo.SnowflakeTimestamp(profile.Member.DiscordID); err == nil {
			profile.AccountCreatedAt = createdAt
		}
	}
}

// Profile returns the cached view, nil when no fetch has completed.
func (p *ProfileAggregator) Profile(memberID string) *types.MemberProfile {
	p.mu.Lock()
	defer p.mu.Unlock()
	view, ok := p.views[memberID]
	if !ok {
		return nil
	}
	return view.profile
}

// Release closes a member view. In-flight fetches for it are suppressed when
// they land.
func (p *ProfileAggregator) Release(memberID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.views, memberID)
}

// FindOrCreate resolves a discord ID to an internal member ID, creating the
// record when none exists. One fire-and-forget call per page load, any
// idempotency beyond the backend's is not guaranteed.
func (p *ProfileAggregator) FindOrCreate(ctx context.Context, discordID string) (string, error) {
	token, err := p.sessions.RequireToken()
	if err != nil {
		return "", err
	}
	if discordID == "" {
		return "", perr("discord id cannot be empty", 400)
	}

	memberID, err := p.backend.FindOrCreateMember(ctx, token, discordID)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		p.sessions.InvalidateOn(err)
		return "", err
	}
	return memberID, nil
}

// appendNote inserts a server-confirmed note at the head of the cached view.
func (p *ProfileAggregator) appendNote(memberID string, note *types.AdminNote) {
	p.mu.Lock()
	defer p.mu.Unlock()
	view, ok := p.views[memberID]
	if !ok || view.profile == nil || view.profile.Member == nil {
		return
	}
	member := view.profile.Member
	member.AdminNotes = append([]*types.AdminNote{note}, member.AdminNotes...)
}
