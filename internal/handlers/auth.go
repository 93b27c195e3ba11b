package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"yatube/internal/errs"
	"yatube/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*Deps
}

func NewAuthHandler(deps *Deps) *AuthHandler {
	return &AuthHandler{Deps: deps}
}

// safeNext keeps only local redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	Render(c, http.StatusOK, "users/signup.html", gin.H{"Username": ""})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password1")

	fail400 := func(err error) {
		fieldErrors, err := errs.FieldErrors(err)
		if err != nil {
			fail(c, err)
			return
		}
		Render(c, http.StatusBadRequest, "users/signup.html", gin.H{
			"Username": username,
			"Errors":   fieldErrors,
		})
	}

	if password != c.PostForm("password2") {
		fail400(errs.NewValidationError("password2", errs.PasswordMismatch))
		return
	}
	user, err := h.Accounts.Register(c.Request.Context(), username, password)
	if err != nil {
		fail400(err)
		return
	}
	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "users/login.html", gin.H{"Username": "", "Next": c.Query("next")})
}

// Login stores the user id in the session and follows ?next= when it
// points inside the site.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	next := c.PostForm("next")
	if next == "" {
		next = c.Query("next")
	}

	user, err := h.Accounts.Authenticate(c.Request.Context(), username, c.PostForm("password"))
	if err != nil {
		fieldErrors, err := errs.FieldErrors(err)
		if err != nil {
			fail(c, err)
			return
		}
		Render(c, http.StatusBadRequest, "users/login.html", gin.H{
			"Username": username,
			"Next":     next,
			"Errors":   fieldErrors,
		})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, safeNext(next))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		fail(c, err)
		return
	}
	// The page below must not show the user that was just logged out.
	c.Set(middleware.CheckUserKey, nil)
	Render(c, http.StatusOK, "users/logged_out.html", nil)
}
