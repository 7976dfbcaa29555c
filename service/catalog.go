package service

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/karios/mission-control/types"
	"github.com/karios/mission-control/utils"
	"github.com/kofalt/go-memoize"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const serverMembersCacheKey = "server-members"

// maxSearchDistance is the largest edit distance still considered a match for
// a query with no substring hit.
const maxSearchDistance = 3

// MemberCatalog retrieves the categorized member snapshot and partitions it
// locally. Tab selection and search are pure reads of the cached snapshot, so
// all category counts stay mutually consistent at a single point in time. The
// snapshot never expires on its own, it is only replaced by an explicit
// refresh.
type MemberCatalog struct {
	backend  Backend
	sessions *SessionStore
	cache    *memoize.Memoizer
	refresh  singleflight.Group
}

func NewMemberCatalog(backend Backend, sessions *SessionStore) *MemberCatalog {
	return &MemberCatalog{
		backend:  backend,
		sessions: sessions,
		cache:    memoize.NewMemoizer(cache.NoExpiration, cache.NoExpiration),
	}
}

// ServerMembers returns the cached categorized snapshot, fetching it from the
// main app API when the cache is cold.
func (c *MemberCatalog) ServerMembers(ctx context.Context) (*types.CategorizedMembers, error) {
	token, err := c.sessions.RequireToken()
	if err != nil {
		return nil, err
	}

	f := func() (interface{}, error) {
		return c.backend.GetServerMembers(ctx, token)
	}

	resp, err, cached := c.cache.Memoize(serverMembersCacheKey, f)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		c.sessions.InvalidateOn(err)
		return nil, err
	}

	utils.LogCtx(ctx).WithField("cached", cached).Debug("getting server members")
	return resp.(*types.CategorizedMembers), nil
}

// RefreshServerMembers drops the cached snapshot and fetches a new one.
// Concurrent refreshes are collapsed into a single request.
func (c *MemberCatalog) RefreshServerMembers(ctx context.Context) (*types.CategorizedMembers, error) {
	token, err := c.sessions.RequireToken()
	if err != nil {
		return nil, err
	}

	resp, err, _ := c.refresh.Do(serverMembersCacheKey, func() (interface{}, error) {
		members, err := c.backend.GetServerMembers(ctx, token)
		if err != nil {
			return nil, err
		}
		c.cache.Storage.Set(serverMembersCacheKey, members, cache.NoExpiration)
		return members, nil
	})
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		c.sessions.InvalidateOn(err)
		return nil, err
	}

	return resp.(*types.CategorizedMembers), nil
}

// MembersPage is the legacy paginated listing. Pagination metadata is
// accurate even when the requested page is past the end, the backend then
// returns an empty item list.
func (c *MemberCatalog) MembersPage(ctx context.Context, page, limit int64) (*types.PagedMembers, error) {
	token, err := c.sessions.RequireToken()
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 25
	}

	paged, err := c.backend.GetMembersPage(ctx, token, page, limit)
	if err != nil {
		utils.LogCtx(ctx).Error(err)
		c.sessions.InvalidateOn(err)
		return nil, err
	}
	return paged, nil
}

// Search ranks the cached snapshot against the query by edit distance over
// username and global name. It never issues an extra request beyond warming
// the snapshot itself.
func (c *MemberCatalog) Search(ctx context.Context, query string) ([]*types.SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, perr("search query cannot be empty", 400)
	}

	members, err := c.ServerMembers(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*types.SearchResult, 0)
	for _, member := range members.All() {
		d := searchDistance(query, member)
		if d < 0 {
			continue
		}
		results = append(results, &types.SearchResult{Member: member, Distance: d})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	return results, nil
}

// searchDistance returns the rank of a member for the query, lower is better,
// negative means no match. Substring hits rank ahead of fuzzy hits.
func searchDistance(query string, member *types.Member) int {
	best := -1
	for _, name := range []string{member.Username, member.GlobalName, member.DiscordID} {
		if name == "" {
			continue
		}
		name = strings.ToLower(name)
		if strings.Contains(name, query) {
			return 0
		}
		d := levenshtein.ComputeDistance(query, name)
		if d <= maxSearchDistance && (best < 0 || d < best) {
			best = d
		}
	}
	return best
}
