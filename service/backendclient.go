package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	"github.com/karios/mission-control/constants"
	"github.com/karios/mission-control/types"
	"github.com/karios/mission-control/utils"
)

type mainAppClient struct {
	baseURL string
	client  *http.Client
}

func NewMainAppClient(baseURL string, requestTimeout time.Duration) *mainAppClient {
	return &mainAppClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type apiErrorResponse struct {
	Message string `json:"message"`
}

// do sends one authenticated JSON request and decodes the response into out.
// Non-2xx responses are returned as PublicError carrying the backend's
// human-readable message verbatim, transport failures as RemoteError.
func (c *mainAppClient) do(ctx context.Context, method, path, token string, body interface{}, out interface{}) error {
	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=utf-8")
	}

	utils.LogCtx(ctx).WithField("method", method).WithField("path", path).Debug("calling the main app API")

	resp, err := c.client.Do(req)
	if err != nil {
		return constants.RemoteError{Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return constants.RemoteError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiErrorResponse
		if err := json.Unmarshal(respBytes, &apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("main app API error: %s", resp.Status)
		}
		return constants.PublicError{Msg: apiErr.Message, Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return constants.RemoteError{Err: err}
	}
	return nil
}

func (c *mainAppClient) GetOwnIdentity(ctx context.Context, token string) (*types.AdminIdentity, error) {
	var identity types.AdminIdentity
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (c *mainAppClient) GetServerMembers(ctx context.Context, token string) (*types.CategorizedMembers, error) {
	var members types.CategorizedMembers
	if err := c.do(ctx, http.MethodGet, "/admin/server-members", token, nil, &members); err != nil {
		return nil, err
	}
	return &members, nil
}

func (c *mainAppClient) GetMembersPage(ctx context.Context, token string, page, limit int64) (*types.PagedMembers, error) {
	var paged types.PagedMembers
	path := fmt.Sprintf("/admin/users?%s", url.Values{
		"page":  []string{fmt.Sprint(page)},
		"limit": []string{fmt.Sprint(limit)},
	}.Encode())
	if err := c.do(ctx, http.MethodGet, path, token, nil, &paged); err != nil {
		return nil, err
	}
	return &paged, nil
}

func (c *mainAppClient) GetMemberProfile(ctx context.Context, token string, memberID string) (*types.MemberProfile, error) {
	var profile types.MemberProfile
	path := fmt.Sprintf("/admin/users/%s/profile", url.PathEscape(memberID))
	if err := c.do(ctx, http.MethodGet, path, token, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

type addNoteRequest struct {
	NoteText string `json:"noteText"`
}

type addNoteResponse struct {
	Note *types.AdminNote `json:"note"`
}

func (c *mainAppClient) AddMemberNote(ctx context.Context, token string, memberID, noteText string) (*types.AdminNote, error) {
	var resp addNoteResponse
	path := fmt.Sprintf("/admin/users/%s/notes", url.PathEscape(memberID))
	if err := c.do(ctx, http.MethodPost, path, token, addNoteRequest{NoteText: noteText}, &resp); err != nil {
		return nil, err
	}
	if resp.Note == nil {
		return nil, constants.RemoteError{Err: fmt.Errorf("main app API did not return the stored note")}
	}
	return resp.Note, nil
}

type roleActionRequest struct {
	RoleID   string `json:"roleId"`
	RoleName string `json:"roleName"`
}

type roleActionResponse struct {
	Message string `json:"message"`
}

func (c *mainAppClient) AssignMemberRole(ctx context.Context, token string, memberID, roleID, roleName string) (string, error) {
	var resp roleActionResponse
	path := fmt.Sprintf("/admin/users/%s/assign-role", url.PathEscape(memberID))
	if err := c.do(ctx, http.MethodPost, path, token, roleActionRequest{RoleID: roleID, RoleName: roleName}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *mainAppClient) RevokeMemberRole(ctx context.Context, token string, memberID, roleID, roleName string) (string, error) {
	var resp roleActionResponse
	path := fmt.Sprintf("/admin/users/%s/revoke-role", url.PathEscape(memberID))
	if err := c.do(ctx, http.MethodPost, path, token, roleActionRequest{RoleID: roleID, RoleName: roleName}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *mainAppClient) SyncMemberRoles(ctx context.Context, token string, memberID string) (string, error) {
	var resp roleActionResponse
	path := fmt.Sprintf("/admin/users/%s/sync-roles", url.PathEscape(memberID))
	if err := c.do(ctx, http.MethodPost, path, token, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

type findOrCreateRequest struct {
	DiscordID string `json:"discordId"`
}

type findOrCreateResponse struct {
	UserID string `json:"userId"`
}

func (c *mainAppClient) FindOrCreateMember(ctx context.Context, token string, discordID string) (string, error) {
	var resp findOrCreateResponse
	if err := c.do(ctx, http.MethodPost, "/admin/users/find-or-create", token, findOrCreateRequest{DiscordID: discordID}, &resp); err != nil {
		return "", err
	}
	if resp.UserID == "" {
		return "", constants.RemoteError{Err: fmt.Errorf("main app API did not return a member id")}
	}
	return resp.UserID, nil
}
