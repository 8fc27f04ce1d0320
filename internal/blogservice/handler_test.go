package blogservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/postbook/internal/common"
	"github.com/sushihentaime/postbook/internal/models"
)

func setupTestEnvironment(t *testing.T, dialect common.Dialect) (*BlogService, *common.Store, *common.Cache) {
	t.Helper()

	store := common.TestStore(t, dialect)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	t.Cleanup(cache.Flush)

	return NewBlogService(store, cache), store, cache
}

func createRandomBlog(t *testing.T, store *common.Store, url string) int {
	t.Helper()

	var id int
	err := store.DB.QueryRow(store.Rebind("INSERT INTO blogs (url) VALUES ($1) RETURNING id"), url).Scan(&id)
	require.NoError(t, err)

	return id
}

func createRandomPost(t *testing.T, store *common.Store, title string, blogID int) {
	t.Helper()

	_, err := store.DB.Exec(store.Rebind("INSERT INTO posts (title, content, blog_id) VALUES ($1, $2, $3)"), title, "fslahfsdakjfds", blogID)
	require.NoError(t, err)
}

func countRows(t *testing.T, store *common.Store, table string) int {
	t.Helper()

	var count int
	err := store.DB.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
	require.NoError(t, err)

	return count
}

func TestCreateBlog(t *testing.T) {
	for _, dialect := range common.TestDialects() {
		t.Run(string(dialect), func(t *testing.T) {
			s, store, _ := setupTestEnvironment(t, dialect)

			testCases := []struct {
				name        string
				url         string
				expectedErr error
			}{
				{
					name: "valid url",
					url:  "www.google.com",
				},
				{
					name:        "empty url",
					url:         "",
					expectedErr: common.ValidationError{Errors: map[string]string{"url": "must be provided"}},
				},
				{
					name:        "blank url",
					url:         "   ",
					expectedErr: common.ValidationError{Errors: map[string]string{"url": "must be provided"}},
				},
			}

			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					before := countRows(t, store, "blogs")

					blog, err := s.CreateBlog(context.Background(), tc.url)
					assert.Equal(t, tc.expectedErr, err)

					if tc.expectedErr != nil {
						assert.Nil(t, blog)
						assert.Equal(t, before, countRows(t, store, "blogs"))
						return
					}

					require.NotNil(t, blog)
					assert.NotZero(t, blog.ID)
					assert.Equal(t, tc.url, blog.URL)
					assert.Equal(t, before+1, countRows(t, store, "blogs"))
				})
			}
		})
	}
}

func TestGetBlogByURL(t *testing.T) {
	for _, dialect := range common.TestDialects() {
		t.Run(string(dialect), func(t *testing.T) {
			s, store, cache := setupTestEnvironment(t, dialect)

			googleID := createRandomBlog(t, store, "www.google.com")
			createRandomBlog(t, store, "www.twitter.com")
			createRandomBlog(t, store, "www.twitter.com")

			testCases := []struct {
				name        string
				url         string
				expected    *models.Blog
				expectedErr error
			}{
				{
					name:     "valid url",
					url:      "www.google.com",
					expected: &models.Blog{ID: googleID, URL: "www.google.com"},
				},
				{
					name:        "blog not found",
					url:         "localhost",
					expectedErr: common.ErrRecordNotFound,
				},
				{
					name:        "ambiguous url",
					url:         "www.twitter.com",
					expectedErr: common.ErrMultipleRecords,
				},
				{
					name:        "empty url",
					url:         "",
					expectedErr: common.ValidationError{Errors: map[string]string{"url": "must be provided"}},
				},
			}

			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					blog, err := s.GetBlogByURL(context.Background(), tc.url)
					assert.Equal(t, tc.expectedErr, err)
					assert.Equal(t, tc.expected, blog)

					_, cached := cache.Get(common.CacheKeyBlogByURL(tc.url))
					assert.Equal(t, tc.expectedErr == nil, cached)
				})
			}
		})
	}
}

func TestGetBlogByURL_Cached(t *testing.T) {
	s, store, _ := setupTestEnvironment(t, common.SQLite)
	id := createRandomBlog(t, store, "www.google.com")

	first, err := s.GetBlogByURL(context.Background(), "www.google.com")
	require.NoError(t, err)

	_, err = store.DB.Exec(store.Rebind("UPDATE blogs SET url = $1 WHERE id = $2"), "www.bing.com", id)
	require.NoError(t, err)

	second, err := s.GetBlogByURL(context.Background(), "www.google.com")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = s.CreateBlog(context.Background(), "www.google.com")
	require.NoError(t, err)

	third, err := s.GetBlogByURL(context.Background(), "www.google.com")
	require.NoError(t, err)
	assert.NotEqual(t, id, third.ID)
}

func TestGetBlogs(t *testing.T) {
	for _, dialect := range common.TestDialects() {
		t.Run(string(dialect), func(t *testing.T) {
			s, store, _ := setupTestEnvironment(t, dialect)

			facebookID := createRandomBlog(t, store, "www.facebook.com")
			googleID := createRandomBlog(t, store, "www.google.com")
			createRandomBlog(t, store, "www.lttstore.com")

			createRandomPost(t, store, "Why your accessory never works out the way you plan", googleID)
			createRandomPost(t, store, "How to be unpopular in the business insurance world", googleID)
			createRandomPost(t, store, "The 8 worst home tech gadgets in history", facebookID)

			blogs, err := s.GetBlogs(context.Background())
			require.NoError(t, err)
			require.Len(t, blogs, 3)

			assert.Equal(t, "www.facebook.com", blogs[0].URL)
			assert.Len(t, blogs[0].Posts, 1)

			assert.Equal(t, "www.google.com", blogs[1].URL)
			require.Len(t, blogs[1].Posts, 2)
			assert.Equal(t, "How to be unpopular in the business insurance world", blogs[1].Posts[0].Title)
			assert.Equal(t, googleID, blogs[1].Posts[0].BlogID)

			assert.Equal(t, "www.lttstore.com", blogs[2].URL)
			assert.Empty(t, blogs[2].Posts)
		})
	}
}

func TestDeleteBlogByURL(t *testing.T) {
	for _, dialect := range common.TestDialects() {
		t.Run(string(dialect), func(t *testing.T) {
			s, store, cache := setupTestEnvironment(t, dialect)

			googleID := createRandomBlog(t, store, "www.google.com")
			facebookID := createRandomBlog(t, store, "www.facebook.com")
			createRandomPost(t, store, "How to be unpopular in the business insurance world", googleID)
			createRandomPost(t, store, "Why your accessory never works out the way you plan", googleID)
			createRandomPost(t, store, "The 8 worst home tech gadgets in history", facebookID)

			_, err := s.GetBlogByURL(context.Background(), "www.google.com")
			require.NoError(t, err)

			testCases := []struct {
				name          string
				url           string
				expectedErr   error
				expectedBlogs int
				expectedPosts int
			}{
				{
					name:          "cascades to posts",
					url:           "www.google.com",
					expectedBlogs: 1,
					expectedPosts: 1,
				},
				{
					name:          "blog not found",
					url:           "www.google.com",
					expectedErr:   common.ErrRecordNotFound,
					expectedBlogs: 1,
					expectedPosts: 1,
				},
				{
					name:          "empty url",
					url:           "",
					expectedErr:   common.ValidationError{Errors: map[string]string{"url": "must be provided"}},
					expectedBlogs: 1,
					expectedPosts: 1,
				},
			}

			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					err := s.DeleteBlogByURL(context.Background(), tc.url)
					assert.Equal(t, tc.expectedErr, err)

					assert.Equal(t, tc.expectedBlogs, countRows(t, store, "blogs"))
					assert.Equal(t, tc.expectedPosts, countRows(t, store, "posts"))

					_, cached := cache.Get(common.CacheKeyBlogByURL("www.google.com"))
					assert.False(t, cached)
				})
			}
		})
	}
}
