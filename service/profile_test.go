package service

import (
	"context"
	"testing"
	"time"

	"github.com/karios/mission-control/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testProfile(roleIDs ...string) *types.MemberProfile {
	return &types.MemberProfile{
		Member: &types.Member{
			ID:                 "m1",
			DiscordID:          "190320984123768832",
			Username:           "john",
			SubscriptionStatus: "active",
			AssignedRoleIDs:    roleIDs,
			AdminNotes:         []*types.AdminNote{},
		},
		Analytics: &types.AnalyticsSnapshot{
			Person: &types.AnalyticsPerson{City: "Prague", CountryCode: "CZ"},
		},
	}
}

func Test_ProfileAggregator_Fetch_OK(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	tc.loggedIn("abc123")
	profile := testProfile("r1")
	tc.backend.On("GetMemberProfile", "abc123", "m1").Return(profile, nil)

	fetched, err := tc.profiles.Fetch(ctx, "m1")

	assert.NoError(t, err)
	assert.Equal(t, profile, fetched)
	assert.Equal(t, profile, tc.profiles.Profile("m1"))
	assert.False(t, fetched.AccountCreatedAt.IsZero())
	tc.assertExpectations(t)
}

func Test_ProfileAggregator_Fetch_OK_MissingAnalyticsDoesNotFail(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	tc.loggedIn("abc123")
	profile := testProfile()
	profile.Analytics = nil
	tc.backend.On("GetMemberProfile", "abc123", "m1").Return(profile, nil)

	fetched, err := tc.profiles.Fetch(ctx, "m1")

	assert.NoError(t, err)
	assert.NotNil(t, fetched.Member)
	assert.NotNil(t, fetched.Analytics)
	assert.NotEmpty(t, fetched.Analytics.Error)
	tc.assertExpectations(t)
}

func Test_ProfileAggregator_Fetch_Fail_NotFound(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	tc.loggedIn("abc123")
	tc.backend.On("GetMemberProfile", "abc123", "nope").Return((*types.MemberProfile)(nil), perr("User not found.", 404))

	_, err := tc.profiles.Fetch(ctx, "nope")

	assert.Error(t, err)
	assert.Nil(t, tc.profiles.Profile("nope"))
	tc.assertExpectations(t)
}

func Test_ProfileAggregator_Fetch_StaleResponseIsDropped(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	tc.loggedIn("abc123")
	release := make(chan struct{})
	tc.backend.On("GetMemberProfile", "abc123", "m1").Run(func(args mock.Arguments) {
		<-release
	}).Return(testProfile("r1"), nil)

	done := make(chan error, 1)
	go func() {
		_, err := tc.profiles.Fetch(ctx, "m1")
		done <- err
	}()

	// let the fetch claim its operation token, then close the view while the
	// request is still outstanding
	time.Sleep(20 * time.Millisecond)
	tc.profiles.Release("m1")
	close(release)

	assert.NoError(t, <-done)
	assert.Nil(t, tc.profiles.Profile("m1"))
	tc.assertExpectations(t)
}

func Test_ConsoleService_CachedMemberProfile_ReadsViewWithoutFetch(t *testing.T) {
	tc := newTestConsole()

	svc := &ConsoleService{
		sessions: tc.sessions,
		catalog:  tc.catalog,
		profiles: tc.profiles,
		notes:    tc.notes,
		roles:    tc.roles,
	}

	assert.Nil(t, svc.CachedMemberProfile("m1"))

	tc.profiles.views["m1"] = &memberView{profile: testProfile("r1")}

	profile := svc.CachedMemberProfile("m1")
	assert.NotNil(t, profile)
	assert.True(t, profile.Member.HasRole("r1"))
	tc.backend.AssertNotCalled(t, "GetMemberProfile")
}

func Test_ProfileAggregator_FindOrCreate_OK(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	tc.loggedIn("abc123")
	tc.backend.On("FindOrCreateMember", "abc123", "190320984123768832").Return("m1", nil)

	memberID, err := tc.profiles.FindOrCreate(ctx, "190320984123768832")

	assert.NoError(t, err)
	assert.Equal(t, "m1", memberID)
	tc.assertExpectations(t)
}

func Test_ProfileAggregator_FindOrCreate_Fail_EmptyDiscordID(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	tc.loggedIn("abc123")

	_, err := tc.profiles.FindOrCreate(ctx, "")

	assert.Error(t, err)
	tc.backend.AssertNotCalled(t, "FindOrCreateMember")
}
