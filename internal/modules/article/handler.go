package article

import (
	"github.com/gin-gonic/gin"
	"github.com/mwanaisha222/impala1/internal/middleware"
	"github.com/mwanaisha222/impala1/internal/models"
	"github.com/mwanaisha222/impala1/internal/pkg/pagination"
	"github.com/mwanaisha222/impala1/internal/pkg/response"
)

// Notifier receives the newly created article after its storage commit.
// Notification is best-effort: implementations must never propagate mail
// failures back to the publishing request.
type Notifier interface {
	OnArticleCreate(a *models.ArticleModel)
}

// Handler handles article HTTP requests.
type Handler struct {
	svc      *Service
	notifier Notifier
}

func NewHandler(svc *Service, notifier Notifier) *Handler {
	return &Handler{svc: svc, notifier: notifier}
}

// RegisterRoutes mounts article routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/articles")
	g.GET("", h.list)
	g.GET("/:id", h.get)

	authed := g.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

// list GET /articles
func (h *Handler) list(c *gin.Context) {
	articles, pag, err := h.svc.List(pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]articleResponse, len(articles))
	for i, a := range articles {
		items[i] = toResponse(&a)
	}
	response.Paged(c, items, pag)
}

// get GET /articles/:id
func (h *Handler) get(c *gin.Context) {
	a, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if a == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(a))
}

// create POST /articles
func (h *Handler) create(c *gin.Context) {
	var dto ArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := h.svc.Create(middleware.CurrentUserID(c), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	// The article is committed at this point; the fan-out runs off the
	// request path and its outcome never changes this response.
	if h.notifier != nil {
		h.notifier.OnArticleCreate(a)
	}

	response.Created(c, toResponse(a))
}

// update PUT /articles/:id
func (h *Handler) update(c *gin.Context) {
	a, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if a == nil {
		response.NotFound(c)
		return
	}
	if a.AuthorID != middleware.CurrentUserID(c) {
		response.Forbidden(c, "you are not allowed to edit this article")
		return
	}

	var dto ArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Update(a, &dto); err != nil {
		response.InternalError(c, err)
		return
	}
	// Updates never re-notify subscribers.
	response.OK(c, toResponse(a))
}

// delete DELETE /articles/:id
func (h *Handler) delete(c *gin.Context) {
	a, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if a == nil {
		response.NotFound(c)
		return
	}
	if a.AuthorID != middleware.CurrentUserID(c) {
		response.Forbidden(c, "you are not allowed to delete this article")
		return
	}
	if err := h.svc.Delete(a.ID); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
