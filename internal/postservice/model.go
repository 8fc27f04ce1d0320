package postservice

import (
	"context"
	"fmt"

	"github.com/sushihentaime/postbook/internal/common"
	"github.com/sushihentaime/postbook/internal/models"
)

func newPostModel(store *common.Store) *PostModel {
	return &PostModel{store: store}
}

// storeError classifies constraint failures while keeping the driver error in
// the chain.
func storeError(err error) error {
	switch {
	case common.UniqueViolation(err):
		return fmt.Errorf("%w: %w", ErrDuplicateTitle, err)
	case common.ForeignKeyViolation(err):
		return fmt.Errorf("%w: %w", ErrBlogForeignKey, err)
	default:
		return err
	}
}

// getBlogByURL expects exactly one blog with the given url.
func (m *PostModel) getBlogByURL(ctx context.Context, q common.Querier, url string) (*models.Blog, error) {
	query := `
		SELECT id, url
		FROM blogs
		WHERE url = $1
		LIMIT 2`

	rows, err := q.QueryContext(ctx, m.store.Rebind(query), url)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []models.Blog
	for rows.Next() {
		var blog models.Blog
		if err := rows.Scan(&blog.ID, &blog.URL); err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(blogs) {
	case 0:
		return nil, common.ErrRecordNotFound
	case 1:
		return &blogs[0], nil
	default:
		return nil, common.ErrMultipleRecords
	}
}

func (m *PostModel) countBlogsByURL(ctx context.Context, q common.Querier, url string) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, m.store.Rebind("SELECT COUNT(*) FROM blogs WHERE url = $1"), url).Scan(&count)
	return count, err
}

func (m *PostModel) countByTitle(ctx context.Context, q common.Querier, title string) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, m.store.Rebind("SELECT COUNT(*) FROM posts WHERE title = $1"), title).Scan(&count)
	return count, err
}

// getSingle runs a posts query that must match exactly one row.
func (m *PostModel) getSingle(ctx context.Context, q common.Querier, where string, args ...any) (*models.Post, error) {
	query := `
		SELECT id, title, COALESCE(content, ''), blog_id
		FROM posts
		WHERE ` + where + `
		LIMIT 2`

	rows, err := q.QueryContext(ctx, m.store.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.BlogID); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(posts) {
	case 0:
		return nil, common.ErrRecordNotFound
	case 1:
		return &posts[0], nil
	default:
		return nil, common.ErrMultipleRecords
	}
}

func (m *PostModel) getByTitle(ctx context.Context, q common.Querier, title string) (*models.Post, error) {
	return m.getSingle(ctx, q, "title = $1", title)
}

func (m *PostModel) getByTitleContains(ctx context.Context, q common.Querier, title string) (*models.Post, error) {
	return m.getSingle(ctx, q, m.store.Dialect.Contains("title", 1), title)
}

func (m *PostModel) insert(ctx context.Context, q common.Querier, p *models.Post) error {
	query := `
		INSERT INTO posts (title, content, blog_id)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := q.QueryRowContext(ctx, m.store.Rebind(query), p.Title, p.Content, p.BlogID).Scan(&p.ID)
	if err != nil {
		return storeError(err)
	}

	return nil
}

func (m *PostModel) update(ctx context.Context, q common.Querier, p *models.Post) error {
	query := `
		UPDATE posts
		SET title = $1, content = $2, blog_id = $3
		WHERE id = $4`

	res, err := q.ExecContext(ctx, m.store.Rebind(query), p.Title, p.Content, p.BlogID, p.ID)
	if err != nil {
		return storeError(err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return common.ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *PostModel) delete(ctx context.Context, q common.Querier, id int) error {
	res, err := q.ExecContext(ctx, m.store.Rebind("DELETE FROM posts WHERE id = $1"), id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return common.ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

// listWithBlog returns posts joined with their blog. where may be empty.
func (m *PostModel) listWithBlog(ctx context.Context, where, orderBy string, args ...any) ([]models.Post, error) {
	query := `
		SELECT p.id, p.title, COALESCE(p.content, ''), p.blog_id, b.id, b.url
		FROM posts p
		JOIN blogs b ON p.blog_id = b.id`
	if where != "" {
		query += "\n\t\tWHERE " + where
	}
	if orderBy != "" {
		query += "\n\t\tORDER BY " + orderBy
	}

	rows, err := m.store.DB.QueryContext(ctx, m.store.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var (
			p    models.Post
			blog models.Blog
		)
		err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.BlogID, &blog.ID, &blog.URL)
		if err != nil {
			return nil, err
		}
		p.Blog = &blog
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (m *PostModel) findByTitleContains(ctx context.Context, term string) ([]models.Post, error) {
	return m.listWithBlog(ctx, m.store.Dialect.Contains("p.title", 1), "", term)
}

func (m *PostModel) getAll(ctx context.Context) ([]models.Post, error) {
	return m.listWithBlog(ctx, "", "p.title ASC")
}
