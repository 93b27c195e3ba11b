package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"yatube/internal/db"
	"yatube/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// testClock moves forward by step every time it is read.
type testClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Freeze stops the clock from advancing.
func (c *testClock) Freeze() {
	c.mu.Lock()
	c.step = 0
	c.mu.Unlock()
}

type testEnv struct {
	db       *gorm.DB
	clock    *testClock
	store    *Store
	graph    *FollowGraph
	feed     *FeedComposer
	comments *CommentThread
	accounts *Accounts
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := db.OpenMemory(name)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	clock := &testClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: time.Second}
	store := NewStore(gdb, clock.Now)
	graph := NewFollowGraph(gdb, clock.Now)
	return &testEnv{
		db:       gdb,
		clock:    clock,
		store:    store,
		graph:    graph,
		feed:     NewFeedComposer(store, graph),
		comments: NewCommentThread(gdb, clock.Now),
		accounts: NewAccounts(store, bcrypt.MinCost),
	}
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "x"}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) group(t *testing.T, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	require.NoError(t, e.store.CreateGroup(context.Background(), g))
	return g
}

func (e *testEnv) post(t *testing.T, author *models.User, group *models.Group, text string) *models.Post {
	t.Helper()
	p := &models.Post{Text: text, UserID: author.ID}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, e.store.CreatePost(context.Background(), p))
	return p
}

func (e *testEnv) posts(t *testing.T, author *models.User, group *models.Group, n int) []*models.Post {
	t.Helper()
	out := make([]*models.Post, n)
	for i := range out {
		out[i] = e.post(t, author, group, fmt.Sprintf("post %d by %s", i, author.Username))
	}
	return out
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
