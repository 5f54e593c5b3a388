package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/atinyakov/sbp/internal/middleware"
	"github.com/atinyakov/sbp/internal/service"
	"github.com/atinyakov/sbp/internal/view"
	"go.uber.org/zap"
)

// Pages holds what every page handler needs to answer with HTML.
type Pages struct {
	// View renders the page templates.
	View *view.Renderer
	// Log receives unexpected failures.
	Log *zap.Logger
}

// render writes page with the given status. The signed-in user and any
// notice code from the query string are filled in when d leaves them empty.
func (p Pages) render(w http.ResponseWriter, r *http.Request, status int, page view.Page, d view.Data) {
	if d.User == "" {
		d.User = middleware.GetUserFromContext(r.Context())
	}
	if d.Notice == "" && d.Error == "" {
		d.Notice = view.Notice(r.URL.Query().Get("notice"))
	}

	body, err := p.View.Render(page, d)
	if err != nil {
		p.Log.Error("render failed", zap.String("page", page.Name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// fail answers a non-validation error: 404 for unknown ids, 500 otherwise.
func (p Pages) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	p.Log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("device", middleware.GetDeviceFromContext(r.Context())),
		zap.Error(err),
	)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// enabled reports whether the template set provides section of page and
// answers 404 when it does not.
func (p Pages) enabled(w http.ResponseWriter, r *http.Request, page view.Page, section string) bool {
	if p.View.Has(page, section) {
		return true
	}
	http.NotFound(w, r)
	return false
}

// seeOther finishes a successful POST.
func seeOther(w http.ResponseWriter, r *http.Request, path, notice string) {
	if notice != "" {
		path += "?" + url.Values{"notice": {notice}}.Encode()
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
