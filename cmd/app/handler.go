package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sushihentaime/postbook/internal/common"
	"github.com/sushihentaime/postbook/internal/models"
	"github.com/sushihentaime/postbook/internal/postservice"
)

type createBlogRequest struct {
	URL string `json:"url"`
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input createBlogRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blog, err := app.blogService.CreateBlog(r.Context(), input.URL)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getBlogsHandler(w http.ResponseWriter, r *http.Request) {
	blogs, err := app.blogService.GetBlogs(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getBlogByURLHandler(w http.ResponseWriter, r *http.Request) {
	url, err := app.readStringParam(r, "url")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blog, err := app.blogService.GetBlogByURL(r.Context(), url)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	url, err := app.readStringParam(r, "url")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.blogService.DeleteBlogByURL(r.Context(), url)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "blog successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type addPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

func (app *application) addPostHandler(w http.ResponseWriter, r *http.Request) {
	var input addPostRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	v := common.NewValidator()
	v.Check(v.MaxChars(input.Title, models.MaxTitleLength), "title", "must not be more than 100 characters long")
	if !v.Valid() {
		app.failedValidationErrorResponse(w, r, v.Errors)
		return
	}

	count, err := app.postService.Add(r.Context(), input.Title, input.Content, input.URL)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	status := http.StatusOK
	if count > 0 {
		status = http.StatusCreated
		app.publishPostCreated(r, common.PostCreatedEvent{Title: input.Title, URL: input.URL})
	}

	err = app.writeJSON(w, status, envelope{"count": count}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getAllPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := app.postService.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": posts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) findPostsHandler(w http.ResponseWriter, r *http.Request) {
	// a missing q finds every post, like an empty term
	term := r.URL.Query().Get("q")

	posts, err := app.postService.Find(r.Context(), term)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": posts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type updatePostTitleRequest struct {
	Title    string `json:"title"`
	NewTitle string `json:"new_title"`
}

func (app *application) updatePostTitleHandler(w http.ResponseWriter, r *http.Request) {
	var input updatePostTitleRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	v := common.NewValidator()
	v.Check(v.MaxChars(input.NewTitle, models.MaxTitleLength), "new_title", "must not be more than 100 characters long")
	if !v.Valid() {
		app.failedValidationErrorResponse(w, r, v.Errors)
		return
	}

	err = app.postService.UpdateTitle(r.Context(), input.Title, input.NewTitle)
	app.writeUpdateResponse(w, r, err)
}

type updatePostContentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (app *application) updatePostContentHandler(w http.ResponseWriter, r *http.Request) {
	var input updatePostContentRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.postService.UpdateContent(r.Context(), input.Title, input.Content)
	app.writeUpdateResponse(w, r, err)
}

type updatePostURLRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (app *application) updatePostURLHandler(w http.ResponseWriter, r *http.Request) {
	var input updatePostURLRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.postService.UpdateUrl(r.Context(), input.Title, input.URL)
	app.writeUpdateResponse(w, r, err)
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	title, err := app.readStringParam(r, "title")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	count, err := app.postService.DeleteByTitle(r.Context(), title)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"count": count}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) writeUpdateResponse(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "post successfully updated"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// storeErrorResponse maps the errors returned by the services to responses.
func (app *application) storeErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr common.ValidationError
	var invalidOpErr *postservice.InvalidOperationError

	switch {
	case errors.As(err, &invalidOpErr):
		app.invalidOperationErrorResponse(w, r, invalidOpErr.Message)
	case errors.As(err, &validationErr):
		app.failedValidationErrorResponse(w, r, validationErr.Errors)
	case errors.Is(err, postservice.ErrDuplicateTitle):
		app.conflictErrorResponse(w, r, postservice.ErrDuplicateTitle.Error())
	case errors.Is(err, common.ErrMultipleRecords):
		app.conflictErrorResponse(w, r, common.ErrMultipleRecords.Error())
	case errors.Is(err, common.ErrRecordNotFound):
		app.notFoundErrorResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

// publishPostCreated is best effort: the post is already committed.
func (app *application) publishPostCreated(r *http.Request, event common.PostCreatedEvent) {
	if app.producer == nil {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		app.logError(r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err = app.producer.Publish(ctx, body, common.PostCreatedKey, common.PostExchange)
	if err != nil {
		app.logError(r, err)
	}
}
