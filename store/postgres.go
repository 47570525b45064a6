// Package store provides the persistence implementations behind the
// service repository interfaces: SQLStore for PostgreSQL and MemoryStore
// for tests.
package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"postline.app/postline-backend/models"
	"postline.app/postline-backend/services"
)

// SQLStore implements every service repository interface on top of a
// single *sql.DB handle.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

var (
	_ services.UserStore    = (*SQLStore)(nil)
	_ services.GroupStore   = (*SQLStore)(nil)
	_ services.PostStore    = (*SQLStore)(nil)
	_ services.CommentStore = (*SQLStore)(nil)
	_ services.FollowStore  = (*SQLStore)(nil)
	_ services.TokenStore   = (*SQLStore)(nil)
)

// Users

func (s *SQLStore) CreateUser(ctx context.Context, u *models.User) error {
	return s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at`,
		u.Username, u.Email, u.Password,
	).Scan(&u.ID, &u.CreatedAt)
}

func (s *SQLStore) UserByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password, created_at
		FROM users
		WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return models.User{}, services.ErrNotFound
	}
	return u, err
}

func (s *SQLStore) UserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password, created_at
		FROM users
		WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return models.User{}, services.ErrNotFound
	}
	return u, err
}

// Groups

func (s *SQLStore) CreateGroup(ctx context.Context, g *models.Group) error {
	return s.db.QueryRowContext(ctx, `
		INSERT INTO blog_groups (title, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id`,
		g.Title, g.Slug, g.Description,
	).Scan(&g.ID)
}

func (s *SQLStore) GroupByID(ctx context.Context, id int64) (models.Group, error) {
	var g models.Group
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, slug, description
		FROM blog_groups
		WHERE id = $1`, id,
	).Scan(&g.ID, &g.Title, &g.Slug, &g.Description)
	if err == sql.ErrNoRows {
		return models.Group{}, services.ErrNotFound
	}
	return g, err
}

func (s *SQLStore) GroupBySlug(ctx context.Context, slug string) (models.Group, error) {
	var g models.Group
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, slug, description
		FROM blog_groups
		WHERE slug = $1`, slug,
	).Scan(&g.ID, &g.Title, &g.Slug, &g.Description)
	if err == sql.ErrNoRows {
		return models.Group{}, services.ErrNotFound
	}
	return g, err
}

func (s *SQLStore) ListGroups(ctx context.Context) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, slug, description
		FROM blog_groups
		ORDER BY title ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Posts

const postSelect = `
	SELECT p.id, p.author_id, p.group_id, p.text,
	       COALESCE(p.image_url, '') AS image_url,
	       p.created_at,
	       u.username,
	       COALESCE(g.slug, '') AS group_slug
	FROM posts p
	JOIN users u ON p.author_id = u.id
	LEFT JOIN blog_groups g ON p.group_id = g.id`

func (s *SQLStore) CreatePost(ctx context.Context, p *models.Post) error {
	var groupID sql.NullInt64
	if p.GroupID != nil {
		groupID = sql.NullInt64{Int64: *p.GroupID, Valid: true}
	}
	return s.db.QueryRowContext(ctx, `
		INSERT INTO posts (author_id, group_id, text, image_url, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NOW())
		RETURNING id, created_at`,
		p.AuthorID, groupID, p.Text, p.ImageURL,
	).Scan(&p.ID, &p.CreatedAt)
}

func (s *SQLStore) UpdatePost(ctx context.Context, p *models.Post) error {
	var groupID sql.NullInt64
	if p.GroupID != nil {
		groupID = sql.NullInt64{Int64: *p.GroupID, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts
		SET text = $1, group_id = $2, image_url = NULLIF($3, '')
		WHERE id = $4`,
		p.Text, groupID, p.ImageURL, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *SQLStore) DeletePost(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (s *SQLStore) PostByID(ctx context.Context, id int64) (models.PostWithAuthor, error) {
	row := s.db.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return models.PostWithAuthor{}, services.ErrNotFound
	}
	return p, err
}

func (s *SQLStore) ListPosts(ctx context.Context) ([]models.PostWithAuthor, error) {
	return s.queryPosts(ctx, postSelect+` ORDER BY p.created_at DESC, p.id DESC`)
}

func (s *SQLStore) ListPostsByGroup(ctx context.Context, groupID int64) ([]models.PostWithAuthor, error) {
	return s.queryPosts(ctx,
		postSelect+` WHERE p.group_id = $1 ORDER BY p.created_at DESC, p.id DESC`, groupID)
}

func (s *SQLStore) ListPostsByAuthor(ctx context.Context, authorID int64) ([]models.PostWithAuthor, error) {
	return s.queryPosts(ctx,
		postSelect+` WHERE p.author_id = $1 ORDER BY p.created_at DESC, p.id DESC`, authorID)
}

func (s *SQLStore) ListPostsByAuthors(ctx context.Context, authorIDs []int64) ([]models.PostWithAuthor, error) {
	return s.queryPosts(ctx,
		postSelect+` WHERE p.author_id = ANY($1) ORDER BY p.created_at DESC, p.id DESC`,
		pq.Array(authorIDs))
}

func (s *SQLStore) CountPostsByAuthor(ctx context.Context, authorID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID,
	).Scan(&count)
	return count, err
}

func (s *SQLStore) queryPosts(ctx context.Context, query string, args ...interface{}) ([]models.PostWithAuthor, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.PostWithAuthor
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (models.PostWithAuthor, error) {
	var p models.PostWithAuthor
	var groupID sql.NullInt64
	err := row.Scan(
		&p.ID,
		&p.AuthorID,
		&groupID,
		&p.Text,
		&p.ImageURL,
		&p.CreatedAt,
		&p.AuthorUsername,
		&p.GroupSlug,
	)
	if err != nil {
		return models.PostWithAuthor{}, err
	}
	if groupID.Valid {
		p.GroupID = &groupID.Int64
	}
	return p, nil
}

// Comments

func (s *SQLStore) CreateComment(ctx context.Context, c *models.Comment) error {
	return s.db.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, author_id, text, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at`,
		c.PostID, c.AuthorID, c.Text,
	).Scan(&c.ID, &c.CreatedAt)
}

func (s *SQLStore) ListCommentsByPost(ctx context.Context, postID int64) ([]models.CommentWithAuthor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.author_id, c.text, c.created_at, u.username
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC, c.id DESC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.CommentWithAuthor
	for rows.Next() {
		var c models.CommentWithAuthor
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text,
			&c.CreatedAt, &c.AuthorUsername); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Follows
//
// There is deliberately no UNIQUE constraint on (follower_id, author_id);
// duplicates are prevented by the existence check in the service path.

func (s *SQLStore) CreateFollow(ctx context.Context, followerID, authorID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, author_id, created_at)
		VALUES ($1, $2, NOW())`,
		followerID, authorID)
	return err
}

func (s *SQLStore) DeleteFollow(ctx context.Context, followerID, authorID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM follows
		WHERE follower_id = $1 AND author_id = $2`,
		followerID, authorID)
	return err
}

func (s *SQLStore) FollowExists(ctx context.Context, followerID, authorID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM follows
			WHERE follower_id = $1 AND author_id = $2
		)`, followerID, authorID,
	).Scan(&exists)
	return exists, err
}

func (s *SQLStore) FollowedAuthorIDs(ctx context.Context, followerID int64) ([]int64, error) {
	return s.queryIDs(ctx, `
		SELECT author_id FROM follows WHERE follower_id = $1`, followerID)
}

func (s *SQLStore) FollowerIDs(ctx context.Context, authorID int64) ([]int64, error) {
	return s.queryIDs(ctx, `
		SELECT follower_id FROM follows WHERE author_id = $1`, authorID)
}

func (s *SQLStore) queryIDs(ctx context.Context, query string, arg int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Device tokens

func (s *SQLStore) SaveToken(ctx context.Context, userID int64, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fcm_tokens (user_id, token, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id, token)
		DO UPDATE SET updated_at = NOW()`,
		userID, token)
	return err
}

func (s *SQLStore) DeleteToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM fcm_tokens WHERE token = $1`, token)
	return err
}

func (s *SQLStore) TokensForUsers(ctx context.Context, userIDs []int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT token
		FROM fcm_tokens
		WHERE user_id = ANY($1)
		  AND token IS NOT NULL
		  AND token != ''`,
		pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}
