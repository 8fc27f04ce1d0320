package models

// Blog owns a set of posts. Its URL is the lookup key used by the services
// although the schema does not declare it unique.
type Blog struct {
	ID    int    `json:"id"`
	URL   string `json:"url"`
	Posts []Post `json:"posts,omitempty"`
}
