package newsletter

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mwanaisha222/impala1/internal/pkg/signer"
)

const invalidLinkMessage = "Invalid or expired link."

// Handler serves the unsubscribe link clicked from notification emails.
type Handler struct {
	store  SubscriberStore
	signer *signer.Signer
}

func NewHandler(store SubscriberStore, sg *signer.Signer) *Handler {
	return &Handler{store: store, signer: sg}
}

// RegisterRoutes mounts the unsubscribe route at the site root, matching
// the link format embedded in sent emails.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/unsubscribe/:token", h.unsubscribe)
}

// unsubscribe GET /unsubscribe/:token/
//
// A bad token and an unknown subscriber produce the same generic failure,
// so the response leaks nothing about which records exist. Replaying a
// valid token is safe: consent stays off and the confirmation repeats.
func (h *Handler) unsubscribe(c *gin.Context) {
	token := c.Param("token")

	id, err := h.signer.Verify(token)
	if err != nil {
		c.String(http.StatusBadRequest, invalidLinkMessage)
		return
	}

	contact, err := h.store.GetByID(id)
	if err != nil || contact == nil {
		c.String(http.StatusBadRequest, invalidLinkMessage)
		return
	}

	if err := h.store.SetConsent(id, false); err != nil {
		c.String(http.StatusBadRequest, invalidLinkMessage)
		return
	}

	c.String(http.StatusOK, fmt.Sprintf(
		"Hello %s, you have been unsubscribed from email updates.", contact.Name))
}
