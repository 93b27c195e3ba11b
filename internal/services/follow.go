package services

import (
	"context"
	"yatube/internal/models"
	"yatube/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoOpReason explains why a follow or unfollow changed nothing.
type NoOpReason string

const (
	ReasonSelfFollow       NoOpReason = "self-follow"
	ReasonAlreadyFollowing NoOpReason = "already following"
	ReasonNotFollowing     NoOpReason = "not following"
)

// Outcome is the result of a graph mutation: either Applied, or a
// no-op with a reason. No-ops are not errors; callers just redirect.
type Outcome struct {
	Applied bool
	Reason  NoOpReason
}

func applied() Outcome { return Outcome{Applied: true} }

func noOp(reason NoOpReason) Outcome { return Outcome{Reason: reason} }

// FollowGraph maintains follow edges. An edge (user, author) exists at
// most once and never points at its own user.
type FollowGraph struct {
	db  *gorm.DB
	now utils.Clock
}

func NewFollowGraph(db *gorm.DB, now utils.Clock) *FollowGraph {
	return &FollowGraph{db: db, now: now}
}

// Follow makes userID follow authorID.
func (g *FollowGraph) Follow(ctx context.Context, userID, authorID uint) (Outcome, error) {
	if userID == authorID {
		return noOp(ReasonSelfFollow), nil
	}

	follow := models.Follow{
		UserID:    userID,
		AuthorID:  authorID,
		CreatedAt: g.now(),
	}
	// The unique index settles concurrent duplicate follows.
	res := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit("User", "Author").
		Create(&follow)
	if res.Error != nil {
		return Outcome{}, res.Error
	}
	if res.RowsAffected == 0 {
		return noOp(ReasonAlreadyFollowing), nil
	}
	return applied(), nil
}

// Unfollow removes the edge if it exists.
func (g *FollowGraph) Unfollow(ctx context.Context, userID, authorID uint) (Outcome, error) {
	res := g.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return Outcome{}, res.Error
	}
	if res.RowsAffected == 0 {
		return noOp(ReasonNotFollowing), nil
	}
	return applied(), nil
}

func (g *FollowGraph) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// FollowedAuthors returns the ids of every author userID follows.
func (g *FollowGraph) FollowedAuthors(ctx context.Context, userID uint) (map[uint]struct{}, error) {
	var ids []uint
	if err := g.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// followedAuthorIDs is the subquery behind the following feed.
func (g *FollowGraph) followedAuthorIDs(ctx context.Context, userID uint) *gorm.DB {
	return g.db.WithContext(ctx).Model(&models.Follow{}).Select("author_id").Where("user_id = ?", userID)
}

func (g *FollowGraph) FollowerCount(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.Follow{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (g *FollowGraph) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.Follow{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
