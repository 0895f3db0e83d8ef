package models

// ContactMessage is a visitor-submitted contact record. Email is
// deliberately not unique: every submission is its own row, and each
// consenting row receives its own newsletter mail.
type ContactMessage struct {
	Base
	Name                string `json:"name"    gorm:"not null"`
	Email               string `json:"email"   gorm:"index;not null"`
	Phone               string `json:"phone"`
	Message             string `json:"message" gorm:"type:text"`
	ConsentEmailUpdates bool   `json:"consent_email_updates" gorm:"default:false"`
}

func (ContactMessage) TableName() string { return "contact_messages" }
