package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"yatube/app/forms"
	"yatube/app/middleware"
	"yatube/app/repositories"
	"yatube/app/services"
	"yatube/app/views"

	"go.uber.org/zap"
)

// H is the view-model handed to a template, or encoded for JSON clients.
type H map[string]interface{}

// base carries what every controller needs to answer a request.
type base struct {
	views  *views.Renderer
	logger *zap.Logger
}

func newBase(renderer *views.Renderer, logger *zap.Logger) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{views: renderer, logger: logger}
}

// wantsJSON reports whether the client asked for JSON instead of HTML.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// render writes data as the named page, or as JSON when the client asks for it.
func (b *base) render(w http.ResponseWriter, r *http.Request, status int, page string, data H) {
	if wantsJSON(r) {
		b.sendJSON(w, status, data)
		return
	}

	html := H{"currentUser": middleware.CurrentUser(r)}
	for k, v := range data {
		html[k] = v
	}

	var buf bytes.Buffer
	if err := b.views.Render(&buf, page, html); err != nil {
		b.logger.Error("template error", zap.String("page", page), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (b *base) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.logger.Error("encode response", zap.Error(err))
	}
}

func (b *base) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if wantsJSON(r) {
		b.sendJSON(w, status, map[string]string{"error": message})
		return
	}

	switch status {
	case http.StatusNotFound:
		b.render(w, r, status, "errors/404", H{"path": r.URL.Path})
	case http.StatusInternalServerError:
		b.render(w, r, status, "errors/500", H{})
	default:
		http.Error(w, message, status)
	}
}

func (b *base) notFound(w http.ResponseWriter, r *http.Request) {
	b.sendError(w, r, "Not found", http.StatusNotFound)
}

// handleError maps a service error onto a response. Anything unexpected is
// logged and answered with 500.
func (b *base) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		b.notFound(w, r)
	case errors.Is(err, services.ErrUnauthenticated):
		http.Redirect(w, r, middleware.LoginRedirect(r.URL.RequestURI()), http.StatusFound)
	default:
		b.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		b.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
	}
}

// formValues returns the submitted fields, from a JSON body or a urlencoded form.
func formValues(r *http.Request) (url.Values, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return forms.ValuesFromJSON(r.Body)
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

// errorsOrEmpty keeps templates from indexing a nil interface.
func errorsOrEmpty(errs forms.Errors) forms.Errors {
	if errs == nil {
		return forms.Errors{}
	}
	return errs
}

// NotFoundHandler answers unknown routes with the 404 page.
func NotFoundHandler(renderer *views.Renderer, logger *zap.Logger) http.Handler {
	b := newBase(renderer, logger)
	return http.HandlerFunc(b.notFound)
}
