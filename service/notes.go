package service

import (
	"context"
	"strings"

	"github.com/karios/mission-control/types"
	"github.com/karios/mission-control/utils"
)

// NoteAppender posts administrative notes to a member record. The canonical
// note comes back from the server and is inserted at the head of the cached
// list only after the round trip completes, never speculatively.
type NoteAppender struct {
	backend  Backend
	sessions *SessionStore
	profiles *ProfileAggregator
}

func NewNoteAppender(backend Backend, sessions *SessionStore, profiles *ProfileAggregator) *NoteAppender {
	return &NoteAppender{
		backend:  backend,
		sessions: sessions,
		profiles: profiles,
	}
}

func (n *NoteAppender) AddNote(ctx context.Context, memberID, noteText string) (*types.AdminNote, error) {
	noteText = strings.TrimSpace(noteText)
	if noteText == "" {
		return nil, perr("note text cannot be empty", 400)
	}

	token, err := n.sessions.RequireToken()
	if err != nil {
		return nil, err
	}

	note, err := n.backend.AddMemberNote(ctx, token, memberID, noteText)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		n.sessions.InvalidateOn(err)
		return nil, err
	}

	n.profiles.appendNote(memberID, note)
	return note, nil
}
