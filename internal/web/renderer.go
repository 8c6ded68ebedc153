package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dom/movie-catalog/internal/domain"
)

//go:embed templates static
var assets embed.FS

// pages maps a view name to its template file. Every page is parsed together
// with layout.html and rendered through the "layout" template.
var pages = map[string]string{
	"index":          "index.html",
	"login":          "login.html",
	"register":       "register.html",
	"error":          "error.html",
	"movies/add":     "movies/add.html",
	"movies/edit":    "movies/edit.html",
	"movies/details": "movies/details.html",
}

var funcs = template.FuncMap{
	"join":   domain.JoinGenres,
	"rating": FormatRating,
}

// UserFunc extracts the logged in user from a request context.
type UserFunc func(ctx context.Context) (*domain.SessionUser, bool)

// Page is the data every view receives.
type Page struct {
	Title  string
	User   *domain.SessionUser
	Errors []string
	Data   any
}

type Renderer struct {
	templates  map[string]*template.Template
	userFunc   UserFunc
	production bool
	logger     *slog.Logger
}

func NewRenderer(userFunc UserFunc, production bool, logger *slog.Logger) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(assets, "templates/layout.html", "templates/movies/form.html", "templates/"+file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &Renderer{
		templates:  templates,
		userFunc:   userFunc,
		production: production,
		logger:     logger,
	}, nil
}

// Static returns the embedded static asset tree.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Render executes the named view with status. The session user is filled in
// from the request when the caller left it unset.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	tmpl, ok := rd.templates[name]
	if !ok {
		rd.logger.Error("unknown template", "name", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if page.User == nil && rd.userFunc != nil {
		if user, ok := rd.userFunc(r.Context()); ok {
			page.User = user
		}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		rd.logger.Error("failed to execute template", "name", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// FormatRating prints a rating without trailing zeros.
func FormatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', -1, 64)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
