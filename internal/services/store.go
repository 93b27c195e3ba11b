package services

import (
	"context"
	"errors"
	"yatube/internal/errs"
	"yatube/internal/models"
	"yatube/internal/utils"

	"gorm.io/gorm"
)

// Store is the entity store: users, groups, posts and the cascades
// between them. Comments and follows have their own services but are
// removed here when their owners go away.
type Store struct {
	db  *gorm.DB
	now utils.Clock
}

func NewStore(db *gorm.DB, now utils.Clock) *Store {
	return &Store{db: db, now: now}
}

// notFound maps GORM's missing-row error onto errs.NotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound
	}
	return err
}

// --- Users ---

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// DeleteAuthor removes a user together with everything that depends on
// them: comments on their posts, their own comments, their posts and
// every follow edge in either direction.
func (s *Store) DeleteAuthor(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, userID).Error; err != nil {
			return notFound(err)
		}

		ownPosts := tx.Model(&models.Post{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("post_id IN (?) OR user_id = ?", ownPosts, userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR author_id = ?", userID, userID).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

// --- Groups ---

func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.CreatedAt.IsZero() {
		group.CreatedAt = s.now()
	}
	return s.db.WithContext(ctx).Create(group).Error
}

func (s *Store) GroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, notFound(err)
	}
	return &group, nil
}

// Groups lists every group for the post form.
func (s *Store) Groups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.WithContext(ctx).Order("title ASC, id ASC").Find(&groups).Error
	return groups, err
}

// DeleteGroup removes a group. Its posts survive with no group.
func (s *Store) DeleteGroup(ctx context.Context, groupID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.Select("id").First(&group, groupID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Model(&models.Post{}).Where("group_id = ?", groupID).Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&group).Error
	})
}

// --- Posts ---

// validatePost cleans the text and checks the optional group.
func (s *Store) validatePost(ctx context.Context, post *models.Post) error {
	post.Text = utils.CleanText(post.Text)
	if post.Text == "" {
		return errs.NewValidationError("text", errs.TextRequired)
	}
	if post.GroupID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Group{}).Where("id = ?", *post.GroupID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewValidationError("group", errs.GroupNotFound)
		}
	}
	return nil
}

// CreatePost stores a new post stamped with the store clock.
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	if err := s.validatePost(ctx, post); err != nil {
		return err
	}
	post.CreatedAt = s.now()
	post.UpdatedAt = post.CreatedAt
	return s.db.WithContext(ctx).Omit("User", "Group").Create(post).Error
}

// UpdatePost saves text, group and image. Author and creation time
// never change.
func (s *Store) UpdatePost(ctx context.Context, post *models.Post) error {
	if err := s.validatePost(ctx, post); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&models.Post{ID: post.ID}).
		Select("text", "group_id", "image", "updated_at").
		Updates(map[string]interface{}{
			"text":       post.Text,
			"group_id":   post.GroupID,
			"image":      post.Image,
			"updated_at": s.now(),
		}).Error
}

// PostByID loads a post with its author and group.
func (s *Store) PostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("User").Preload("Group").First(&post, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

func (s *Store) CountPostsByAuthor(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// DeletePost removes a post and its comment thread.
func (s *Store) DeletePost(ctx context.Context, postID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}
