package blogservice

import (
	"context"
	"database/sql"

	"github.com/sushihentaime/postbook/internal/common"
	"github.com/sushihentaime/postbook/internal/models"
)

func NewBlogService(store *common.Store, cache *common.Cache) *BlogService {
	return &BlogService{m: newBlogModel(store), c: cache}
}

// CreateBlog adds a blog with the given url. Posts can only be added to
// blogs created this way.
func (s *BlogService) CreateBlog(ctx context.Context, url string) (*models.Blog, error) {
	v := common.NewValidator()
	validateURL(v, url)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := &models.Blog{URL: url}
	if err := s.m.insert(ctx, blog); err != nil {
		return nil, err
	}

	// a second blog makes the url ambiguous
	s.c.Delete(common.CacheKeyBlogByURL(url))

	return blog, nil
}

// GetBlogByURL returns the single blog with the given url.
func (s *BlogService) GetBlogByURL(ctx context.Context, url string) (*models.Blog, error) {
	v := common.NewValidator()
	validateURL(v, url)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	key := common.CacheKeyBlogByURL(url)
	if cached, ok := s.c.Get(key); ok {
		blog := cached.(models.Blog)
		return &blog, nil
	}

	blog, err := s.m.getBlogByURL(ctx, s.m.store.DB, url)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, *blog)

	return blog, nil
}

// GetBlogs returns every blog with its posts.
func (s *BlogService) GetBlogs(ctx context.Context) ([]models.Blog, error) {
	return s.m.getBlogs(ctx)
}

// DeleteBlogByURL deletes the single blog with the given url and all of its posts.
func (s *BlogService) DeleteBlogByURL(ctx context.Context, url string) error {
	v := common.NewValidator()
	validateURL(v, url)
	if !v.Valid() {
		return v.ValidationError()
	}

	err := s.m.store.WithTx(ctx, func(tx *sql.Tx) error {
		blog, err := s.m.getBlogByURL(ctx, tx, url)
		if err != nil {
			return err
		}

		return s.m.deleteBlog(ctx, tx, blog.ID)
	})
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyBlogByURL(url))

	return nil
}
