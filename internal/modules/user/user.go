package user

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mwanaisha222/impala1/internal/middleware"
	"github.com/mwanaisha222/impala1/internal/models"
	jwtpkg "github.com/mwanaisha222/impala1/internal/pkg/jwt"
	"github.com/mwanaisha222/impala1/internal/pkg/response"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionTTL = 30 * 24 * time.Hour

var (
	errUserNotFound  = errors.New("user not found")
	errWrongPassword = errors.New("wrong password")
	errEmailTaken    = errors.New("email already registered")
)

type SignupDTO struct {
	Email     string `json:"email"      binding:"required,email"`
	FirstName string `json:"first_name" binding:"required,max=50"`
	Surname   string `json:"surname"    binding:"required,max=50"`
	Password  string `json:"password"   binding:"required,min=8"`
}

type LoginDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  *userResponse `json:"user"`
}

func toResponse(u *models.UserModel) *userResponse {
	return &userResponse{
		ID: u.ID, Email: u.Email, FirstName: u.FirstName, Surname: u.Surname,
	}
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) Signup(dto *SignupDTO) (*models.UserModel, error) {
	var count int64
	s.db.Model(&models.UserModel{}).Where("email = ?", dto.Email).Count(&count)
	if count > 0 {
		return nil, errEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := models.UserModel{
		Email:     dto.Email,
		FirstName: dto.FirstName,
		Surname:   dto.Surname,
		Password:  string(hash),
		IsActive:  true,
	}
	return &u, s.db.Create(&u).Error
}

func (s *Service) Login(email, password string) (string, *models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("email = ? AND is_active = ?", email, true).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, errUserNotFound
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, errWrongPassword
	}

	now := time.Now()
	s.db.Model(&u).Update("last_login_at", now)
	u.LastLoginAt = &now

	token, err := jwtpkg.Sign(u.ID, sessionTTL)
	return token, &u, err
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts auth routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")
	g.POST("/signup", h.signup)
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
	g.GET("/me", authMW, h.me)
}

// signup POST /auth/signup
func (h *Handler) signup(c *gin.Context) {
	var dto SignupDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Signup(&dto)
	if err != nil {
		if errors.Is(err, errEmailTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	token, err := jwtpkg.Sign(u.ID, sessionTTL)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, loginResponse{Token: token, User: toResponse(u)})
}

// login POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, u, err := h.svc.Login(dto.Email, dto.Password)
	if err != nil {
		if errors.Is(err, errUserNotFound) || errors.Is(err, errWrongPassword) {
			response.Unauthorized(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, loginResponse{Token: token, User: toResponse(u)})
}

// logout POST /auth/logout
//
// Tokens are stateless; the client discards its copy.
func (h *Handler) logout(c *gin.Context) {
	response.OK(c, gin.H{"message": "logged out"})
}

// me GET /auth/me
func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.Unauthorized(c)
		return
	}
	response.OK(c, toResponse(u))
}
