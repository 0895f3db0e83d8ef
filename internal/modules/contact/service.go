package contact

import (
	"errors"

	"github.com/mwanaisha222/impala1/internal/models"
	"github.com/mwanaisha222/impala1/internal/pkg/pagination"
	"github.com/mwanaisha222/impala1/internal/pkg/response"
	"gorm.io/gorm"
)

// ContactDTO is a public contact form submission.
type ContactDTO struct {
	Name                string `json:"name"    binding:"required,max=100"`
	Email               string `json:"email"   binding:"required,email"`
	Phone               string `json:"phone"   binding:"max=20"`
	Message             string `json:"message" binding:"required"`
	ConsentEmailUpdates *bool  `json:"consent_email_updates" binding:"required"`
}

// Service owns contact records. The newsletter dispatcher and the
// unsubscribe handler read and mutate consent only through it.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) Create(dto *ContactDTO) (*models.ContactMessage, error) {
	cm := models.ContactMessage{
		Name:                dto.Name,
		Email:               dto.Email,
		Phone:               dto.Phone,
		Message:             dto.Message,
		ConsentEmailUpdates: dto.ConsentEmailUpdates != nil && *dto.ConsentEmailUpdates,
	}
	return &cm, s.db.Create(&cm).Error
}

// ListConsenting returns all contacts with the consent flag set. It is a
// fresh read every time; consent may change between publications.
func (s *Service) ListConsenting() ([]models.ContactMessage, error) {
	var contacts []models.ContactMessage
	err := s.db.Where("consent_email_updates = ?", true).Find(&contacts).Error
	return contacts, err
}

func (s *Service) GetByID(id string) (*models.ContactMessage, error) {
	var cm models.ContactMessage
	if err := s.db.First(&cm, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cm, nil
}

// SetConsent persists the consent flag as a single-column update. Setting
// the same value twice is a no-op, not an error. Returns
// gorm.ErrRecordNotFound when the contact does not exist.
func (s *Service) SetConsent(id string, v bool) error {
	res := s.db.Model(&models.ContactMessage{}).
		Where("id = ?", id).
		Update("consent_email_updates", v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.Model(&models.ContactMessage{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// List returns contact messages for the admin view, newest first.
func (s *Service) List(q pagination.Query) ([]models.ContactMessage, response.Pagination, error) {
	tx := s.db.Model(&models.ContactMessage{}).Order("created_at DESC")
	var contacts []models.ContactMessage
	pag, err := pagination.Paginate(tx, q, &contacts)
	return contacts, pag, err
}
