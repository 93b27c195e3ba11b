package services

import (
	"context"
	"math"
	"yatube/internal/errs"
	"yatube/internal/models"

	"gorm.io/gorm"
)

// DefaultPageSize is the number of posts on one feed page.
const DefaultPageSize = 10

// Viewer is whoever is looking at a page. A nil User is anonymous.
type Viewer struct {
	User *models.User
}

// Anonymous is the viewer of a request without a session.
var Anonymous = Viewer{}

func ViewerOf(user *models.User) Viewer {
	return Viewer{User: user}
}

func (v Viewer) IsAnonymous() bool {
	return v.User == nil
}

type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterGroup
	FilterAuthor
	FilterFollowing
)

// Filter picks which posts a feed draws from.
type Filter struct {
	Kind     FilterKind
	Slug     string
	Username string
}

func All() Filter { return Filter{Kind: FilterAll} }

func ByGroup(slug string) Filter { return Filter{Kind: FilterGroup, Slug: slug} }

func ByAuthor(username string) Filter { return Filter{Kind: FilterAuthor, Username: username} }

func FollowedAuthorsOnly() Filter { return Filter{Kind: FilterFollowing} }

// FeedPage is one page of a feed. Group or Author is set when the
// filter resolved one.
type FeedPage struct {
	Posts      []models.Post
	Number     int
	Size       int
	Count      int64
	TotalPages int
	Group      *models.Group
	Author     *models.User
}

func (p *FeedPage) HasPrevious() bool { return p.Number > 1 }

func (p *FeedPage) HasNext() bool { return p.Number < p.TotalPages }

func (p *FeedPage) PreviousNumber() int { return p.Number - 1 }

func (p *FeedPage) NextNumber() int { return p.Number + 1 }

// PageRange lists every page number, for the paginator.
func (p *FeedPage) PageRange() []int {
	pages := make([]int, p.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// FeedComposer turns a viewer and a filter into ordered, paginated posts.
type FeedComposer struct {
	store *Store
	graph *FollowGraph
}

func NewFeedComposer(store *Store, graph *FollowGraph) *FeedComposer {
	return &FeedComposer{store: store, graph: graph}
}

// Compose returns page pageNumber (1-based) of the feed. Pages past the
// end are empty, not an error. Posts come newest first, ties broken by
// id, with author and group preloaded.
func (f *FeedComposer) Compose(ctx context.Context, viewer Viewer, filter Filter, pageNumber, pageSize int) (*FeedPage, error) {
	if pageNumber < 1 {
		return nil, errs.NewValidationError("page", errs.PageInvalid)
	}
	if pageSize < 1 {
		return nil, errs.NewValidationError("page_size", errs.PageInvalid)
	}

	page := &FeedPage{
		Posts:  []models.Post{},
		Number: pageNumber,
		Size:   pageSize,
	}

	var scope func(*gorm.DB) *gorm.DB
	switch filter.Kind {
	case FilterAll:
		scope = func(tx *gorm.DB) *gorm.DB { return tx }
	case FilterGroup:
		group, err := f.store.GroupBySlug(ctx, filter.Slug)
		if err != nil {
			return nil, err
		}
		page.Group = group
		scope = func(tx *gorm.DB) *gorm.DB { return tx.Where("posts.group_id = ?", group.ID) }
	case FilterAuthor:
		author, err := f.store.UserByUsername(ctx, filter.Username)
		if err != nil {
			return nil, err
		}
		page.Author = author
		scope = func(tx *gorm.DB) *gorm.DB { return tx.Where("posts.user_id = ?", author.ID) }
	case FilterFollowing:
		if viewer.IsAnonymous() {
			return nil, errs.AuthenticationRequired
		}
		userID := viewer.User.ID
		scope = func(tx *gorm.DB) *gorm.DB {
			return tx.Where("posts.user_id IN (?)", f.graph.followedAuthorIDs(ctx, userID))
		}
	default:
		return nil, errs.NewValidationError("filter", errs.FilterInvalid)
	}

	db := f.store.db.WithContext(ctx)
	if err := db.Model(&models.Post{}).Scopes(scope).Count(&page.Count).Error; err != nil {
		return nil, err
	}
	page.TotalPages = int(math.Ceil(float64(page.Count) / float64(pageSize)))

	offset := (pageNumber - 1) * pageSize
	if int64(offset) >= page.Count {
		return page, nil
	}

	err := db.Scopes(scope).
		Preload("User").Preload("Group").
		Order(models.PostOrder).
		Limit(pageSize).
		Offset(offset).
		Find(&page.Posts).Error
	if err != nil {
		return nil, err
	}
	return page, nil
}
