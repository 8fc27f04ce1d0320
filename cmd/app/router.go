package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// blog service
	router.HandlerFunc(http.MethodPost, "/v1/blogs", app.createBlogHandler)
	router.HandlerFunc(http.MethodGet, "/v1/blogs", app.getBlogsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/blogs/search", app.getBlogByURLHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/blogs", app.deleteBlogHandler)

	// post service
	router.HandlerFunc(http.MethodPost, "/v1/posts", app.addPostHandler)
	router.HandlerFunc(http.MethodGet, "/v1/posts", app.getAllPostsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/posts/search", app.findPostsHandler)
	router.HandlerFunc(http.MethodPut, "/v1/posts/title", app.updatePostTitleHandler)
	router.HandlerFunc(http.MethodPut, "/v1/posts/content", app.updatePostContentHandler)
	router.HandlerFunc(http.MethodPut, "/v1/posts/url", app.updatePostURLHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/posts", app.deletePostHandler)

	return app.recoverPanic(app.requestID(app.logRequest(app.rateLimit(router))))
}
