package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"yatube/internal/errs"
	"yatube/internal/middleware"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
)

// Views executes the page templates, either into the response or into
// a buffer for the page cache.
type Views struct {
	templates multitemplate.Render
}

func NewViews(templates multitemplate.Render) *Views {
	return &Views{templates: templates}
}

// inject adds the variables every page expects.
func inject(c *gin.Context, obj gin.H) gin.H {
	if obj == nil {
		obj = gin.H{}
	}
	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path
	return obj
}

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	c.HTML(code, name, inject(c, obj))
}

// RenderBytes executes a view to bytes with the same variables Render
// would inject.
func (v *Views) RenderBytes(c *gin.Context, name string, obj gin.H) ([]byte, error) {
	tmpl, ok := v.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not registered", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, inject(c, obj)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "core/error.html", gin.H{"Error": message, "Code": code})
}

// RenderNotFound renders the 404 page for the current path.
func RenderNotFound(c *gin.Context) {
	Render(c, http.StatusNotFound, "core/404.html", gin.H{"Path": c.Request.URL.Path})
}

// NotFound is the engine's NoRoute handler.
func NotFound(c *gin.Context) {
	RenderNotFound(c)
}

// fail turns a service error into a response: 404 for missing
// resources, a login redirect for anonymous viewers, 400 for bad input
// and 500 otherwise. Forms re-render their own validation errors.
func fail(c *gin.Context, err error) {
	switch {
	case errs.IsNotFound(err):
		RenderNotFound(c)
	case errors.Is(err, errs.AuthenticationRequired):
		c.Redirect(http.StatusFound, middleware.LoginRedirect(c.Request.URL.RequestURI()))
	case errors.As(err, new(*errs.ValidationError)):
		RenderError(c, http.StatusBadRequest, errs.Public(err))
	default:
		slog.Error("request failed", "path", c.Request.URL.Path, "err", err)
		RenderError(c, http.StatusInternalServerError, errs.Public(err))
	}
}
