package article

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/mwanaisha222/impala1/internal/database"
	"github.com/mwanaisha222/impala1/internal/middleware"
	"github.com/mwanaisha222/impala1/internal/models"
	"github.com/mwanaisha222/impala1/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeNotifier struct {
	mu    sync.Mutex
	calls []*models.ArticleModel
}

func (f *fakeNotifier) OnArticleCreate(a *models.ArticleModel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, a)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *fakeNotifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	notifier := &fakeNotifier{}
	h := NewHandler(NewService(db), notifier)

	r := gin.New()
	api := r.Group("/api")
	h.RegisterRoutes(api, middleware.Auth())
	return r, db, notifier
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.UserModel {
	t.Helper()
	u := models.UserModel{Email: email, FirstName: "Test", Surname: "Author", IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func authHeader(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.Sign(userID, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func postArticle(r *gin.Engine, auth string, dto ArticleDTO) *httptest.ResponseRecorder {
	body, _ := json.Marshal(dto)
	req := httptest.NewRequest(http.MethodPost, "/api/articles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateRequiresAuth(t *testing.T) {
	r, _, notifier := newTestRouter(t)

	w := postArticle(r, "", ArticleDTO{Title: "Hello", Body: "<p>hi</p>"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, notifier.count())
}

func TestCreateNotifiesOnceAndSanitizes(t *testing.T) {
	r, db, notifier := newTestRouter(t)
	author := createUser(t, db, "author@example.com")

	w := postArticle(r, authHeader(t, author.ID), ArticleDTO{
		Title: "Launch",
		Body:  `<p>Big news</p><script>alert("xss")</script>`,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	require.Equal(t, 1, notifier.count())
	created := notifier.calls[0]
	assert.Equal(t, author.ID, created.AuthorID)
	assert.NotContains(t, created.Body, "<script>")
	assert.Contains(t, created.Body, "<p>Big news</p>")

	// The stored row matches what the notifier saw.
	var stored models.ArticleModel
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	assert.NotContains(t, stored.Body, "script")
}

func TestUpdateDoesNotNotify(t *testing.T) {
	r, db, notifier := newTestRouter(t)
	author := createUser(t, db, "author@example.com")
	auth := authHeader(t, author.ID)

	w := postArticle(r, auth, ArticleDTO{Title: "First", Body: "<p>v1</p>"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 1, notifier.count())
	articleID := notifier.calls[0].ID

	body, _ := json.Marshal(ArticleDTO{Title: "First (edited)", Body: "<p>v2</p>"})
	req := httptest.NewRequest(http.MethodPut, "/api/articles/"+articleID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, notifier.count(), "editing must not trigger another fan-out")
}

func TestUpdateByNonAuthorForbidden(t *testing.T) {
	r, db, notifier := newTestRouter(t)
	author := createUser(t, db, "author@example.com")
	other := createUser(t, db, "other@example.com")

	w := postArticle(r, authHeader(t, author.ID), ArticleDTO{Title: "Mine", Body: "<p>v1</p>"})
	require.Equal(t, http.StatusCreated, w.Code)
	articleID := notifier.calls[0].ID

	body, _ := json.Marshal(ArticleDTO{Title: "Hijacked", Body: "<p>v2</p>"})
	req := httptest.NewRequest(http.MethodPut, "/api/articles/"+articleID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, other.ID))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored models.ArticleModel
	require.NoError(t, db.First(&stored, "id = ?", articleID).Error)
	assert.Equal(t, "Mine", stored.Title)
}

func TestGetUnknownArticle(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/articles/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
