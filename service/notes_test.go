package service

import (
	"context"
	"testing"
	"time"

	"github.com/karios/mission-control/types"
	"github.com/stretchr/testify/assert"
)

func Test_NoteAppender_AddNote_OK_InsertsAtHeadAfterConfirmation(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	tc.loggedIn("abc123")
	profile := testProfile("r1")
	older := &types.AdminNote{ID: "n0", AuthorName: "Admin", NoteText: "older note"}
	profile.Member.AdminNotes = []*types.AdminNote{older}
	tc.profiles.views["m1"] = &memberView{profile: profile}

	confirmed := &types.AdminNote{
		ID:         "n1",
		AuthorName: "Admin",
		NoteText:   "Called customer",
		CreatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	tc.backend.On("AddMemberNote", "abc123", "m1", "Called customer").Return(confirmed, nil)

	note, err := tc.notes.AddNote(ctx, "m1", "  Called customer  ")

	assert.NoError(t, err)
	assert.Equal(t, confirmed, note)
	notes := tc.profiles.Profile("m1").Member.AdminNotes
	assert.Len(t, notes, 2)
	assert.Equal(t, "n1", notes[0].ID)
	assert.Equal(t, older, notes[1])
	tc.assertExpectations(t)
}

func Test_NoteAppender_AddNote_Fail_EmptyAfterTrim(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	tc.loggedIn("abc123")

	_, err := tc.notes.AddNote(ctx, "m1", "   \n\t ")

	assert.Error(t, err)
	tc.backend.AssertNotCalled(t, "AddMemberNote")
}

func Test_NoteAppender_AddNote_Fail_ServerError(t *testing.T) {
	tc := newTestConsole()
	ctx := context.Background()

	tc.loggedIn("abc123")
	profile := testProfile("r1")
	tc.profiles.views["m1"] = &memberView{profile: profile}
	tc.backend.On("AddMemberNote", "abc123", "m1", "Called customer").Return((*types.AdminNote)(nil), perr("Failed to save note.", 500))

	_, err := tc.notes.AddNote(ctx, "m1", "Called customer")

	assert.Error(t, err)
	assert.Empty(t, tc.profiles.Profile("m1").Member.AdminNotes)
	tc.assertExpectations(t)
}
