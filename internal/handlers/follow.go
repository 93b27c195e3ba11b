package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"yatube/internal/middleware"
	"yatube/internal/services"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	*Deps
}

func NewFollowHandler(deps *Deps) *FollowHandler {
	return &FollowHandler{Deps: deps}
}

type edgeMutation func(ctx context.Context, userID, authorID uint) (services.Outcome, error)

// ProfileFollow subscribes the viewer to the author. Following oneself
// or following twice changes nothing.
func (h *FollowHandler) ProfileFollow(c *gin.Context) {
	h.apply(c, "follow", h.Graph.Follow)
}

func (h *FollowHandler) ProfileUnfollow(c *gin.Context) {
	h.apply(c, "unfollow", h.Graph.Unfollow)
}

// apply runs mutate for the viewer and the author in :username, then
// redirects back to the profile either way.
func (h *FollowHandler) apply(c *gin.Context, action string, mutate edgeMutation) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	author, err := h.Store.UserByUsername(ctx, c.Param("username"))
	if err != nil {
		fail(c, err)
		return
	}

	outcome, err := mutate(ctx, user.ID, author.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if !outcome.Applied {
		slog.Debug(action+" ignored", "user_id", user.ID, "author_id", author.ID, "reason", outcome.Reason)
	}
	c.Redirect(http.StatusFound, profileURL(author.Username))
}
