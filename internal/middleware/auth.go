package middleware

import (
	"net/http"
	"net/url"
	"yatube/internal/errs"
	"yatube/internal/models"
	"yatube/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// SessionUserKey is the session field holding the logged-in user id.
const SessionUserKey = "user_id"

// LoginURL is where anonymous visitors of protected pages are sent.
const LoginURL = "/auth/login/"

// AuthRequired redirects anonymous visitors to the login page, keeping
// the requested path in ?next=.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.Redirect(http.StatusFound, LoginRedirect(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoginRedirect builds the login URL that returns to next afterwards.
func LoginRedirect(next string) string {
	return LoginURL + "?next=" + url.QueryEscape(next)
}

// LoadUser retrieves user from session and sets to context
func LoadUser(store *services.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(SessionUserKey).(uint)

		if ok {
			user, err := store.UserByID(c.Request.Context(), userID)
			if err == nil {
				c.Set(CheckUserKey, user)
			} else if errs.IsNotFound(err) {
				// stale session, the account was deleted
				session.Delete(SessionUserKey)
				_ = session.Save()
			}
		}
		c.Next()
	}
}

// CurrentUser returns the logged-in user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(CheckUserKey); exists {
		if u, ok := user.(*models.User); ok {
			return u
		}
	}
	return nil
}

// CurrentViewer wraps CurrentUser for the feed services.
func CurrentViewer(c *gin.Context) services.Viewer {
	return services.ViewerOf(CurrentUser(c))
}
