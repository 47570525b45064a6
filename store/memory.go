package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"postline.app/postline-backend/models"
	"postline.app/postline-backend/services"
)

// MemoryStore implements the service repository interfaces in memory. It
// mirrors the Postgres schema's behavior, including delete cascades and
// the absence of a uniqueness constraint on follow edges.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[int64]models.User
	groups   map[int64]models.Group
	posts    map[int64]models.Post
	comments map[int64]models.Comment
	follows  []models.Follow
	tokens   map[int64][]string
	nextID   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]models.User),
		groups:   make(map[int64]models.Group),
		posts:    make(map[int64]models.Post),
		comments: make(map[int64]models.Comment),
		tokens:   make(map[int64][]string),
	}
}

var (
	_ services.UserStore    = (*MemoryStore)(nil)
	_ services.GroupStore   = (*MemoryStore)(nil)
	_ services.PostStore    = (*MemoryStore)(nil)
	_ services.CommentStore = (*MemoryStore)(nil)
	_ services.FollowStore  = (*MemoryStore)(nil)
	_ services.TokenStore   = (*MemoryStore)(nil)
)

func (m *MemoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

// Users

func (m *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.id()
	u.CreatedAt = time.Now().UTC()
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryStore) UserByID(_ context.Context, id int64) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, services.ErrNotFound
	}
	return u, nil
}

func (m *MemoryStore) UserByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, services.ErrNotFound
}

// DeleteUser cascades the user's posts, comments, and follow edges,
// matching the Postgres foreign-key behavior.
func (m *MemoryStore) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return services.ErrNotFound
	}
	delete(m.users, id)
	for postID, p := range m.posts {
		if p.AuthorID == id {
			m.deletePostLocked(postID)
		}
	}
	for commentID, c := range m.comments {
		if c.AuthorID == id {
			delete(m.comments, commentID)
		}
	}
	kept := m.follows[:0]
	for _, f := range m.follows {
		if f.FollowerID != id && f.AuthorID != id {
			kept = append(kept, f)
		}
	}
	m.follows = kept
	delete(m.tokens, id)
	return nil
}

// Groups

func (m *MemoryStore) CreateGroup(_ context.Context, g *models.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.ID = m.id()
	m.groups[g.ID] = *g
	return nil
}

func (m *MemoryStore) GroupByID(_ context.Context, id int64) (models.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[id]
	if !ok {
		return models.Group{}, services.ErrNotFound
	}
	return g, nil
}

func (m *MemoryStore) GroupBySlug(_ context.Context, slug string) (models.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.groups {
		if g.Slug == slug {
			return g, nil
		}
	}
	return models.Group{}, services.ErrNotFound
}

func (m *MemoryStore) ListGroups(_ context.Context) ([]models.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	groups := make([]models.Group, 0, len(m.groups))
	for _, g := range m.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Title < groups[j].Title })
	return groups, nil
}

// DeleteGroup nulls the group reference on the group's posts; the posts
// themselves survive.
func (m *MemoryStore) DeleteGroup(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.groups[id]; !ok {
		return services.ErrNotFound
	}
	delete(m.groups, id)
	for postID, p := range m.posts {
		if p.GroupID != nil && *p.GroupID == id {
			p.GroupID = nil
			m.posts[postID] = p
		}
	}
	return nil
}

// Posts

func (m *MemoryStore) CreatePost(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id()
	p.CreatedAt = time.Now().UTC()
	m.posts[p.ID] = *p
	return nil
}

func (m *MemoryStore) UpdatePost(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.posts[p.ID]
	if !ok {
		return services.ErrNotFound
	}
	// author and creation time are immutable
	p.AuthorID = existing.AuthorID
	p.CreatedAt = existing.CreatedAt
	m.posts[p.ID] = *p
	return nil
}

func (m *MemoryStore) DeletePost(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return services.ErrNotFound
	}
	m.deletePostLocked(id)
	return nil
}

func (m *MemoryStore) deletePostLocked(id int64) {
	delete(m.posts, id)
	for commentID, c := range m.comments {
		if c.PostID == id {
			delete(m.comments, commentID)
		}
	}
}

func (m *MemoryStore) PostByID(_ context.Context, id int64) (models.PostWithAuthor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.posts[id]
	if !ok {
		return models.PostWithAuthor{}, services.ErrNotFound
	}
	return m.withAuthor(p), nil
}

func (m *MemoryStore) ListPosts(_ context.Context) ([]models.PostWithAuthor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collectPosts(func(models.Post) bool { return true }), nil
}

func (m *MemoryStore) ListPostsByGroup(_ context.Context, groupID int64) ([]models.PostWithAuthor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collectPosts(func(p models.Post) bool {
		return p.GroupID != nil && *p.GroupID == groupID
	}), nil
}

func (m *MemoryStore) ListPostsByAuthor(_ context.Context, authorID int64) ([]models.PostWithAuthor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collectPosts(func(p models.Post) bool { return p.AuthorID == authorID }), nil
}

func (m *MemoryStore) ListPostsByAuthors(_ context.Context, authorIDs []int64) ([]models.PostWithAuthor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := make(map[int64]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		set[id] = struct{}{}
	}
	return m.collectPosts(func(p models.Post) bool {
		_, ok := set[p.AuthorID]
		return ok
	}), nil
}

func (m *MemoryStore) CountPostsByAuthor(_ context.Context, authorID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, p := range m.posts {
		if p.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) collectPosts(match func(models.Post) bool) []models.PostWithAuthor {
	var posts []models.PostWithAuthor
	for _, p := range m.posts {
		if match(p) {
			posts = append(posts, m.withAuthor(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts
}

func (m *MemoryStore) withAuthor(p models.Post) models.PostWithAuthor {
	pa := models.PostWithAuthor{Post: p}
	if u, ok := m.users[p.AuthorID]; ok {
		pa.AuthorUsername = u.Username
	}
	if p.GroupID != nil {
		if g, ok := m.groups[*p.GroupID]; ok {
			pa.GroupSlug = g.Slug
		}
	}
	return pa
}

// Comments

func (m *MemoryStore) CreateComment(_ context.Context, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	c.CreatedAt = time.Now().UTC()
	m.comments[c.ID] = *c
	return nil
}

func (m *MemoryStore) ListCommentsByPost(_ context.Context, postID int64) ([]models.CommentWithAuthor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var comments []models.CommentWithAuthor
	for _, c := range m.comments {
		if c.PostID != postID {
			continue
		}
		ca := models.CommentWithAuthor{Comment: c}
		if u, ok := m.users[c.AuthorID]; ok {
			ca.AuthorUsername = u.Username
		}
		comments = append(comments, ca)
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.After(comments[j].CreatedAt)
		}
		return comments[i].ID > comments[j].ID
	})
	return comments, nil
}

// Follows

func (m *MemoryStore) CreateFollow(_ context.Context, followerID, authorID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.follows = append(m.follows, models.Follow{
		ID:         m.id(),
		FollowerID: followerID,
		AuthorID:   authorID,
		CreatedAt:  time.Now().UTC(),
	})
	return nil
}

func (m *MemoryStore) DeleteFollow(_ context.Context, followerID, authorID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.follows[:0]
	for _, f := range m.follows {
		if f.FollowerID != followerID || f.AuthorID != authorID {
			kept = append(kept, f)
		}
	}
	m.follows = kept
	return nil
}

func (m *MemoryStore) FollowExists(_ context.Context, followerID, authorID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.follows {
		if f.FollowerID == followerID && f.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) FollowedAuthorIDs(_ context.Context, followerID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []int64
	for _, f := range m.follows {
		if f.FollowerID == followerID {
			ids = append(ids, f.AuthorID)
		}
	}
	return ids, nil
}

func (m *MemoryStore) FollowerIDs(_ context.Context, authorID int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []int64
	for _, f := range m.follows {
		if f.AuthorID == authorID {
			ids = append(ids, f.FollowerID)
		}
	}
	return ids, nil
}

// FollowCount reports the number of edges between the pair, duplicates
// included. Test helper.
func (m *MemoryStore) FollowCount(followerID, authorID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, f := range m.follows {
		if f.FollowerID == followerID && f.AuthorID == authorID {
			count++
		}
	}
	return count
}

// Device tokens

func (m *MemoryStore) SaveToken(_ context.Context, userID int64, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens[userID] {
		if t == token {
			return nil
		}
	}
	m.tokens[userID] = append(m.tokens[userID], token)
	return nil
}

func (m *MemoryStore) DeleteToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for userID, tokens := range m.tokens {
		kept := tokens[:0]
		for _, t := range tokens {
			if t != token {
				kept = append(kept, t)
			}
		}
		m.tokens[userID] = kept
	}
	return nil
}

func (m *MemoryStore) TokensForUsers(_ context.Context, userIDs []int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]struct{})
	var tokens []string
	for _, id := range userIDs {
		for _, t := range m.tokens[id] {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tokens = append(tokens, t)
		}
	}
	return tokens, nil
}
