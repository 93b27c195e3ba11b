package handlers

import (
	"time"
	"yatube/internal/services"
	"yatube/internal/utils"
)

// Deps carries the services shared by every handler.
type Deps struct {
	Views    *Views
	Store    *services.Store
	Feed     *services.FeedComposer
	Graph    *services.FollowGraph
	Comments *services.CommentThread
	Accounts *services.Accounts
	Blobs    services.BlobStore
	Cache    *utils.PageCache

	PageSize int
	IndexTTL time.Duration
}
