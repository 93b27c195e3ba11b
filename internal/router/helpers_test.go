package router

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
	"yatube/internal/db"
	"yatube/internal/handlers"
	"yatube/internal/models"
	"yatube/internal/services"
	"yatube/internal/utils"
	"yatube/web"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "correct-horse"

func init() {
	gin.SetMode(gin.TestMode)
}

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

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testApp struct {
	server     *httptest.Server
	db         *gorm.DB
	deps       *handlers.Deps
	cacheClock *testClock
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	name := "router_" + strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := db.OpenMemory(name)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	templates, err := web.LoadTemplates()
	require.NoError(t, err)

	mediaRoot := t.TempDir()
	blobs, err := services.NewDiskBlobStore(mediaRoot)
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: time.Second}
	cacheClock := &testClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache, err := utils.NewPageCache(16, cacheClock.Now)
	require.NoError(t, err)

	store := services.NewStore(gdb, clock.Now)
	graph := services.NewFollowGraph(gdb, clock.Now)
	deps := &handlers.Deps{
		Views:    handlers.NewViews(templates),
		Store:    store,
		Feed:     services.NewFeedComposer(store, graph),
		Graph:    graph,
		Comments: services.NewCommentThread(gdb, clock.Now),
		Accounts: services.NewAccounts(store, bcrypt.MinCost),
		Blobs:    blobs,
		Cache:    cache,
		PageSize: services.DefaultPageSize,
		IndexTTL: 20 * time.Second,
	}

	engine := New(deps, Options{
		SessionSecret: "test-secret",
		MediaRoot:     mediaRoot,
		Templates:     templates,
	})
	server := httptest.NewServer(engine)
	t.Cleanup(server.Close)

	return &testApp{server: server, db: gdb, deps: deps, cacheClock: cacheClock}
}

func (a *testApp) user(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := a.deps.Accounts.Register(context.Background(), username, testPassword)
	require.NoError(t, err)
	return u
}

func (a *testApp) group(t *testing.T, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	require.NoError(t, a.deps.Store.CreateGroup(context.Background(), g))
	return g
}

func (a *testApp) post(t *testing.T, author *models.User, group *models.Group, text string) *models.Post {
	t.Helper()
	p := &models.Post{Text: text, UserID: author.ID}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, a.deps.Store.CreatePost(context.Background(), p))
	return p
}

// client returns a client with its own cookie jar that does not follow
// redirects.
func (a *testApp) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// login returns a client with a session for username.
func (a *testApp) login(t *testing.T, username string) *http.Client {
	t.Helper()
	c := a.client(t)
	res := a.postForm(t, c, "/auth/login/", url.Values{
		"username": {username},
		"password": {testPassword},
	})
	require.Equal(t, http.StatusFound, res.StatusCode)
	return c
}

func (a *testApp) get(t *testing.T, c *http.Client, path string) (*http.Response, []byte) {
	t.Helper()
	res, err := c.Get(a.server.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, body
}

func (a *testApp) page(t *testing.T, c *http.Client, path string) (*http.Response, *goquery.Document) {
	t.Helper()
	res, body := a.get(t, c, path)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	require.NoError(t, err)
	return res, doc
}

func (a *testApp) postForm(t *testing.T, c *http.Client, path string, form url.Values) *http.Response {
	t.Helper()
	res, err := c.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	return res
}

// postMultipart submits fields plus one image file.
func (a *testApp) postMultipart(t *testing.T, c *http.Client, path string, fields map[string]string, filename, contentType string, data []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	res, err := c.Post(a.server.URL+path, w.FormDataContentType(), &body)
	require.NoError(t, err)
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	return res
}

func postCards(doc *goquery.Document) []string {
	var ids []string
	doc.Find("article.post-card").Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.AttrOr("data-post-id", ""))
	})
	return ids
}

var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}
