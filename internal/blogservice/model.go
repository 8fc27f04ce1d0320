package blogservice

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sushihentaime/postbook/internal/common"
	"github.com/sushihentaime/postbook/internal/models"
)

func newBlogModel(store *common.Store) *BlogModel {
	return &BlogModel{store: store}
}

func (m *BlogModel) insert(ctx context.Context, blog *models.Blog) error {
	query := `
		INSERT INTO blogs (url)
		VALUES ($1)
		RETURNING id`

	return m.store.DB.QueryRowContext(ctx, m.store.Rebind(query), blog.URL).Scan(&blog.ID)
}

// getBlogByURL expects the url to identify a single blog.
func (m *BlogModel) getBlogByURL(ctx context.Context, q common.Querier, url string) (*models.Blog, error) {
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

// getBlogs returns all blogs ordered by url, each with its posts ordered by title.
func (m *BlogModel) getBlogs(ctx context.Context) ([]models.Blog, error) {
	query := `
		SELECT b.id, b.url, p.id, p.title, COALESCE(p.content, '')
		FROM blogs b
		LEFT JOIN posts p ON p.blog_id = b.id
		ORDER BY b.url, b.id, p.title`

	rows, err := m.store.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []models.Blog{}
	index := map[int]int{}
	for rows.Next() {
		var (
			blog    models.Blog
			postID  sql.NullInt64
			title   sql.NullString
			content string
		)
		err := rows.Scan(&blog.ID, &blog.URL, &postID, &title, &content)
		if err != nil {
			return nil, err
		}

		i, ok := index[blog.ID]
		if !ok {
			blogs = append(blogs, blog)
			i = len(blogs) - 1
			index[blog.ID] = i
		}

		if postID.Valid {
			blogs[i].Posts = append(blogs[i].Posts, models.Post{
				ID:      int(postID.Int64),
				Title:   title.String,
				Content: content,
				BlogID:  blog.ID,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// deleteBlog removes a blog. Its posts go with it through the cascading foreign key.
func (m *BlogModel) deleteBlog(ctx context.Context, q common.Querier, id int) error {
	res, err := q.ExecContext(ctx, m.store.Rebind("DELETE FROM blogs WHERE id = $1"), id)
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
