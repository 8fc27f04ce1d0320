package models

// MaxTitleLength is the length of the posts.title column.
const MaxTitleLength = 100

// Post belongs to exactly one blog. Titles are unique across all posts.
type Post struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	BlogID  int    `json:"blog_id"`
	Blog    *Blog  `json:"blog,omitempty"`
}
