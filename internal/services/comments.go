package services

import (
	"context"
	"yatube/internal/errs"
	"yatube/internal/models"
	"yatube/internal/utils"

	"gorm.io/gorm"
)

// CommentThread owns the comments under each post.
type CommentThread struct {
	db  *gorm.DB
	now utils.Clock
}

func NewCommentThread(db *gorm.DB, now utils.Clock) *CommentThread {
	return &CommentThread{db: db, now: now}
}

// AddComment appends a comment by viewer to the post.
func (t *CommentThread) AddComment(ctx context.Context, postID uint, viewer Viewer, text string) (*models.Comment, error) {
	if viewer.IsAnonymous() {
		return nil, errs.AuthenticationRequired
	}
	text = utils.CleanText(text)
	if text == "" {
		return nil, errs.NewValidationError("text", errs.TextRequired)
	}

	var post models.Post
	if err := t.db.WithContext(ctx).Select("id").First(&post, postID).Error; err != nil {
		return nil, notFound(err)
	}

	comment := models.Comment{
		PostID:    post.ID,
		UserID:    viewer.User.ID,
		Text:      text,
		CreatedAt: t.now(),
	}
	if err := t.db.WithContext(ctx).Omit("Post", "User").Create(&comment).Error; err != nil {
		return nil, err
	}
	comment.User = *viewer.User
	return &comment, nil
}

// ListComments returns the whole thread, newest first.
func (t *CommentThread) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := t.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order(models.CommentOrder).
		Find(&comments).Error
	return comments, err
}
