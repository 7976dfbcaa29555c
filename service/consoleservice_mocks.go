package service

import (
	"context"

	"github.com/karios/mission-control/types"
	"github.com/stretchr/testify/mock"
)

////////////////////////////////////////////////

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) GetOwnIdentity(_ context.Context, token string) (*types.AdminIdentity, error) {
	args := m.Called(token)
	return args.Get(0).(*types.AdminIdentity), args.Error(1)
}

func (m *mockBackend) GetServerMembers(_ context.Context, token string) (*types.CategorizedMembers, error) {
	args := m.Called(token)
	return args.Get(0).(*types.CategorizedMembers), args.Error(1)
}

func (m *mockBackend) GetMembersPage(_ context.Context, token string, page, limit int64) (*types.PagedMembers, error) {
	args := m.Called(token, page, limit)
	return args.Get(0).(*types.PagedMembers), args.Error(1)
}

func (m *mockBackend) GetMemberProfile(_ context.Context, token string, memberID string) (*types.MemberProfile, error) {
	args := m.Called(token, memberID)
	return args.Get(0).(*types.MemberProfile), args.Error(1)
}

func (m *mockBackend) AddMemberNote(_ context.Context, token string, memberID, noteText string) (*types.AdminNote, error) {
	args := m.Called(token, memberID, noteText)
	return args.Get(0).(*types.AdminNote), args.Error(1)
}

func (m *mockBackend) AssignMemberRole(_ context.Context, token string, memberID, roleID, roleName string) (string, error) {
	args := m.Called(token, memberID, roleID, roleName)
	return args.String(0), args.Error(1)
}

func (m *mockBackend) RevokeMemberRole(_ context.Context, token string, memberID, roleID, roleName string) (string, error) {
	args := m.Called(token, memberID, roleID, roleName)
	return args.String(0), args.Error(1)
}

func (m *mockBackend) SyncMemberRoles(_ context.Context, token string, memberID string) (string, error) {
	args := m.Called(token, memberID)
	return args.String(0), args.Error(1)
}

func (m *mockBackend) FindOrCreateMember(_ context.Context, token string, discordID string) (string, error) {
	args := m.Called(token, discordID)
	return args.String(0), args.Error(1)
}

////////////////////////////////////////////////

type mockTokenStorage struct {
	mock.Mock
}

func (m *mockTokenStorage) Load() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockTokenStorage) Store(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *mockTokenStorage) Clear() error {
	args := m.Called()
	return args.Error(0)
}
