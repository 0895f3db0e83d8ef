package contact

import (
	"github.com/gin-gonic/gin"
	"github.com/mwanaisha222/impala1/internal/pkg/pagination"
	"github.com/mwanaisha222/impala1/internal/pkg/response"
)

// Handler handles contact HTTP requests.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts contact routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/contact")
	g.POST("", h.submit)
	g.GET("", authMW, h.list)
}

// submit POST /contact
func (h *Handler) submit(c *gin.Context) {
	var dto ContactDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cm, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{
		"id":      cm.ID,
		"message": "Thank you! Your message has been sent.",
	})
}

// list GET /contact
func (h *Handler) list(c *gin.Context) {
	contacts, pag, err := h.svc.List(pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, contacts, pag)
}
