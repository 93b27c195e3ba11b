package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"yatube/internal/errs"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
)

// IndexCacheKey holds the rendered first page of the home feed for
// anonymous visitors.
const IndexCacheKey = "index:page:1"

type PostHandler struct {
	*Deps
}

func NewPostHandler(deps *Deps) *PostHandler {
	return &PostHandler{Deps: deps}
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func detailURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}

// Index is the home feed. Anonymous visitors get page one from the
// page cache, so new posts show up there only after the TTL.
func (h *PostHandler) Index(c *gin.Context) {
	page := utils.ParsePage(c.Query("page"))
	viewer := middleware.CurrentViewer(c)

	if viewer.IsAnonymous() && page == 1 {
		body, err := h.Cache.GetOrCompute(IndexCacheKey, h.IndexTTL, func() ([]byte, error) {
			feed, err := h.Feed.Compose(c.Request.Context(), viewer, services.All(), 1, h.PageSize)
			if err != nil {
				return nil, err
			}
			return h.Views.RenderBytes(c, "posts/index.html", gin.H{"Page": feed})
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", body)
		return
	}

	feed, err := h.Feed.Compose(c.Request.Context(), viewer, services.All(), page, h.PageSize)
	if err != nil {
		fail(c, err)
		return
	}
	Render(c, http.StatusOK, "posts/index.html", gin.H{"Page": feed})
}

func (h *PostHandler) GroupPosts(c *gin.Context) {
	page := utils.ParsePage(c.Query("page"))
	feed, err := h.Feed.Compose(c.Request.Context(), middleware.CurrentViewer(c), services.ByGroup(c.Param("slug")), page, h.PageSize)
	if err != nil {
		fail(c, err)
		return
	}
	Render(c, http.StatusOK, "posts/group_list.html", gin.H{
		"Page":  feed,
		"Group": feed.Group,
	})
}

// Profile lists an author's posts with their follow counts. Following
// is only computed for a signed-in viewer looking at someone else.
func (h *PostHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	page := utils.ParsePage(c.Query("page"))
	viewer := middleware.CurrentViewer(c)

	feed, err := h.Feed.Compose(ctx, viewer, services.ByAuthor(c.Param("username")), page, h.PageSize)
	if err != nil {
		fail(c, err)
		return
	}
	author := feed.Author

	followers, err := h.Graph.FollowerCount(ctx, author.ID)
	if err != nil {
		fail(c, err)
		return
	}
	following, err := h.Graph.FollowingCount(ctx, author.ID)
	if err != nil {
		fail(c, err)
		return
	}

	showFollow := !viewer.IsAnonymous() && viewer.User.ID != author.ID
	isFollowing := false
	if showFollow {
		if isFollowing, err = h.Graph.IsFollowing(ctx, viewer.User.ID, author.ID); err != nil {
			fail(c, err)
			return
		}
	}

	Render(c, http.StatusOK, "posts/profile.html", gin.H{
		"Page":           feed,
		"Author":         author,
		"FollowerCount":  followers,
		"FollowingCount": following,
		"ShowFollow":     showFollow,
		"Following":      isFollowing,
	})
}

func (h *PostHandler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderNotFound(c)
		return
	}

	post, err := h.Store.PostByID(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	comments, err := h.Comments.ListComments(ctx, post.ID)
	if err != nil {
		fail(c, err)
		return
	}
	count, err := h.Store.CountPostsByAuthor(ctx, post.UserID)
	if err != nil {
		fail(c, err)
		return
	}

	Render(c, http.StatusOK, "posts/post_detail.html", gin.H{
		"Post":            post,
		"Comments":        comments,
		"AuthorPostCount": count,
	})
}

// FollowIndex is the feed of authors the viewer follows.
func (h *PostHandler) FollowIndex(c *gin.Context) {
	page := utils.ParsePage(c.Query("page"))
	feed, err := h.Feed.Compose(c.Request.Context(), middleware.CurrentViewer(c), services.FollowedAuthorsOnly(), page, h.PageSize)
	if err != nil {
		fail(c, err)
		return
	}
	Render(c, http.StatusOK, "posts/follow.html", gin.H{"Page": feed})
}

// --- Create and edit ---

// renderForm shows the shared create/edit form. Errors maps field
// names to messages.
func (h *PostHandler) renderForm(c *gin.Context, code int, post *models.Post, isEdit bool, fieldErrors map[string]string) {
	groups, err := h.Store.Groups(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	var selected uint
	if post.GroupID != nil {
		selected = *post.GroupID
	}
	Render(c, code, "posts/create_post.html", gin.H{
		"Post":          post,
		"Groups":        groups,
		"SelectedGroup": selected,
		"IsEdit":        isEdit,
		"Errors":        fieldErrors,
	})
}

// bindPost copies the text and group fields of the form onto post.
func bindPost(c *gin.Context, post *models.Post) error {
	post.Text = c.PostForm("text")
	post.GroupID = nil
	if raw := c.PostForm("group"); raw != "" {
		id, ok := utils.ParseID(raw)
		if !ok {
			return errs.NewValidationError("group", errs.GroupNotFound)
		}
		post.GroupID = &id
	}
	return nil
}

// saveUpload stores the optional image field and returns its key, or
// "" when nothing was uploaded.
func (h *PostHandler) saveUpload(c *gin.Context) (string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	return services.SaveImage(c.Request.Context(), h.Blobs, header)
}

func (h *PostHandler) discardUpload(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := h.Blobs.Delete(ctx, key); err != nil {
		slog.Warn("failed to remove orphaned image", "key", key, "err", err)
	}
}

// formError re-renders the form for validation errors and falls back
// to fail for everything else.
func (h *PostHandler) formError(c *gin.Context, post *models.Post, isEdit bool, err error) {
	fieldErrors, err := errs.FieldErrors(err)
	if err != nil {
		fail(c, err)
		return
	}
	h.renderForm(c, http.StatusBadRequest, post, isEdit, fieldErrors)
}

func (h *PostHandler) ShowCreate(c *gin.Context) {
	h.renderForm(c, http.StatusOK, &models.Post{}, false, nil)
}

// Create publishes a post for the current user and sends them to
// their profile.
func (h *PostHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)
	post := &models.Post{UserID: user.ID}

	if err := bindPost(c, post); err != nil {
		h.formError(c, post, false, err)
		return
	}
	key, err := h.saveUpload(c)
	if err != nil {
		h.formError(c, post, false, err)
		return
	}
	post.Image = key

	if err := h.Store.CreatePost(ctx, post); err != nil {
		h.discardUpload(ctx, key)
		h.formError(c, post, false, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(user.Username))
}

// editablePost loads the post behind :id for its author. Anyone else
// is redirected to the post page and ok is false.
func (h *PostHandler) editablePost(c *gin.Context) (*models.Post, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderNotFound(c)
		return nil, false
	}
	post, err := h.Store.PostByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	if post.UserID != middleware.CurrentUser(c).ID {
		c.Redirect(http.StatusFound, detailURL(post.ID))
		return nil, false
	}
	return post, true
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	post, ok := h.editablePost(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, post, true, nil)
}

// Update saves the edit form. A new upload replaces the old image.
func (h *PostHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	post, ok := h.editablePost(c)
	if !ok {
		return
	}

	if err := bindPost(c, post); err != nil {
		h.formError(c, post, true, err)
		return
	}
	key, err := h.saveUpload(c)
	if err != nil {
		h.formError(c, post, true, err)
		return
	}
	previous := post.Image
	if key != "" {
		post.Image = key
	}

	if err := h.Store.UpdatePost(ctx, post); err != nil {
		h.discardUpload(ctx, key)
		post.Image = previous
		h.formError(c, post, true, err)
		return
	}
	if key != "" {
		h.discardUpload(ctx, previous)
	}
	c.Redirect(http.StatusFound, detailURL(post.ID))
}

// AddComment posts a comment and returns to the post. Blank comments
// are dropped without an error page.
func (h *PostHandler) AddComment(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderNotFound(c)
		return
	}

	_, err := h.Comments.AddComment(c.Request.Context(), id, middleware.CurrentViewer(c), c.PostForm("text"))
	var ve *errs.ValidationError
	if err != nil && !errors.As(err, &ve) {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, detailURL(id))
}
