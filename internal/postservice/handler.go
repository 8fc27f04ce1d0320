package postservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/postbook/internal/common"
	"github.com/sushihentaime/postbook/internal/models"
)

func NewPostService(store *common.Store) *PostService {
	return &PostService{m: newPostModel(store)}
}

// Add creates a post in the blog whose url matches. It returns 0 without
// touching the store when title or url is empty, and 1 once the post is
// committed. A missing or ambiguous blog is reported as an error.
func (s *PostService) Add(ctx context.Context, title, content, url string) (int, error) {
	if title == "" || url == "" {
		return 0, nil
	}

	err := s.m.store.WithTx(ctx, func(tx *sql.Tx) error {
		blog, err := s.m.getBlogByURL(ctx, tx, url)
		if err != nil {
			return err
		}

		post := &models.Post{
			Title:   title,
			Content: content,
			BlogID:  blog.ID,
			Blog:    blog,
		}

		return s.m.insert(ctx, tx, post)
	})
	if err != nil {
		return 0, err
	}

	return 1, nil
}

// Find returns every post whose title contains term, with its blog loaded.
func (s *PostService) Find(ctx context.Context, term string) ([]models.Post, error) {
	return s.m.findByTitleContains(ctx, term)
}

// GetAll returns every post with its blog loaded, ordered by title.
func (s *PostService) GetAll(ctx context.Context) ([]models.Post, error) {
	return s.m.getAll(ctx)
}

// UpdateTitle renames the post titled title. The existence check is an exact
// match while the post that gets renamed is the single one whose title
// contains title.
func (s *PostService) UpdateTitle(ctx context.Context, title, newTitle string) error {
	if title == "" {
		return invalidOperation("invalid title name")
	}
	if newTitle == "" {
		return invalidOperation("invalid title name")
	}

	return s.m.store.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.requirePost(ctx, tx, title); err != nil {
			return err
		}

		post, err := s.m.getByTitleContains(ctx, tx, title)
		if err != nil {
			return err
		}

		post.Title = newTitle
		return s.m.update(ctx, tx, post)
	})
}

// UpdateContent overwrites the content of the post titled title. Any content,
// including an empty one, is accepted.
func (s *PostService) UpdateContent(ctx context.Context, title, newContent string) error {
	if title == "" {
		return invalidOperation("invalid title")
	}

	return s.m.store.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.requirePost(ctx, tx, title); err != nil {
			return err
		}

		post, err := s.m.getByTitleContains(ctx, tx, title)
		if err != nil {
			return err
		}

		post.Content = newContent
		return s.m.update(ctx, tx, post)
	})
}

// UpdateUrl moves the post whose title contains title to the blog whose url
// is newUrl. The blog must already exist.
func (s *PostService) UpdateUrl(ctx context.Context, title, newUrl string) error {
	if title == "" {
		return invalidOperation("invalid title")
	}
	if newUrl == "" {
		return invalidOperation("invalid new url")
	}

	return s.m.store.WithTx(ctx, func(tx *sql.Tx) error {
		n, err := s.m.countBlogsByURL(ctx, tx, newUrl)
		if err != nil {
			return err
		}
		if n < 1 {
			return invalidOperation("new url does not already exist in the blog database, please add it first")
		}

		blog, err := s.m.getBlogByURL(ctx, tx, newUrl)
		if err != nil {
			return err
		}

		post, err := s.m.getByTitleContains(ctx, tx, title)
		if errors.Is(err, common.ErrRecordNotFound) {
			return invalidOperation("post with that title could not be found")
		}
		if err != nil {
			return err
		}

		post.BlogID = blog.ID
		post.Blog = blog
		return s.m.update(ctx, tx, post)
	})
}

// DeleteByTitle removes the post whose title is exactly title. It returns 0
// when title is empty or no such post exists.
func (s *PostService) DeleteByTitle(ctx context.Context, title string) (int, error) {
	if title == "" {
		return 0, nil
	}

	deleted := 0
	err := s.m.store.WithTx(ctx, func(tx *sql.Tx) error {
		n, err := s.m.countByTitle(ctx, tx, title)
		if err != nil {
			return err
		}
		if n < 1 {
			return nil
		}

		post, err := s.m.getByTitle(ctx, tx, title)
		if err != nil {
			return err
		}

		if err := s.m.delete(ctx, tx, post.ID); err != nil {
			return err
		}

		deleted = 1
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

func (s *PostService) requirePost(ctx context.Context, tx *sql.Tx, title string) error {
	n, err := s.m.countByTitle(ctx, tx, title)
	if err != nil {
		return err
	}
	if n < 1 {
		return invalidOperation("post with that title could not be found")
	}
	return nil
}
