package newsletter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mwanaisha222/impala1/internal/modules/contact"
	"github.com/mwanaisha222/impala1/internal/pkg/signer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUnsubscribeRouter(t *testing.T) (*gin.Engine, *contact.Service, *signer.Signer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	contactSvc := contact.NewService(newTestDB(t))
	sg := signer.New("test-secret", 0)

	r := gin.New()
	NewHandler(contactSvc, sg).RegisterRoutes(r)
	return r, contactSvc, sg
}

func doGet(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestUnsubscribeFlipsConsent(t *testing.T) {
	r, contactSvc, sg := newUnsubscribeRouter(t)
	cm := addContact(t, contactSvc, "Alice", "alice@example.com", true)

	token := sg.Sign(cm.ID)
	w := doGet(r, "/unsubscribe/"+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "unsubscribed")
	assert.Contains(t, w.Body.String(), "Alice")

	got, err := contactSvc.GetByID(cm.ID)
	require.NoError(t, err)
	assert.False(t, got.ConsentEmailUpdates)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	r, contactSvc, sg := newUnsubscribeRouter(t)
	cm := addContact(t, contactSvc, "Alice", "alice@example.com", true)
	token := sg.Sign(cm.ID)

	for i := 0; i < 2; i++ {
		w := doGet(r, "/unsubscribe/"+token)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	got, err := contactSvc.GetByID(cm.ID)
	require.NoError(t, err)
	assert.False(t, got.ConsentEmailUpdates)
}

func TestUnsubscribeGarbageToken(t *testing.T) {
	r, contactSvc, _ := newUnsubscribeRouter(t)
	cm := addContact(t, contactSvc, "Alice", "alice@example.com", true)

	w := doGet(r, "/unsubscribe/garbage-token")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired link.", w.Body.String())

	// No state change.
	got, err := contactSvc.GetByID(cm.ID)
	require.NoError(t, err)
	assert.True(t, got.ConsentEmailUpdates)
}

func TestUnsubscribeWrongKeyToken(t *testing.T) {
	r, contactSvc, _ := newUnsubscribeRouter(t)
	cm := addContact(t, contactSvc, "Alice", "alice@example.com", true)

	token := signer.New("other-key", 0).Sign(cm.ID)
	w := doGet(r, "/unsubscribe/"+token)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	got, err := contactSvc.GetByID(cm.ID)
	require.NoError(t, err)
	assert.True(t, got.ConsentEmailUpdates)
}

func TestUnsubscribeUnknownSubscriber(t *testing.T) {
	r, _, sg := newUnsubscribeRouter(t)

	// Validly signed token over an id that no longer exists; the response
	// must be indistinguishable from a bad token.
	token := sg.Sign("deleted-contact-id")
	w := doGet(r, "/unsubscribe/"+token)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired link.", w.Body.String())
}
