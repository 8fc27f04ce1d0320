package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
)

type contextKey string

const requestIDContextKey = contextKey("request_id")

func (app *application) createRequestIDContext(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDContextKey, id)
	return r.WithContext(ctx)
}

func (app *application) getRequestID(r *http.Request) string {
	id, ok := r.Context().Value(requestIDContextKey).(string)
	if !ok {
		return ""
	}
	return id
}

func (app *application) requestLogger(r *http.Request) *zerolog.Logger {
	logger := app.logger.With().Str("request_id", app.getRequestID(r)).Logger()
	return &logger
}
