package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Producer is the account that owns listings. Registration lives with the
// identity provider; this service only reads the row.
type Producer struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AuthID    string    `gorm:"column:auth_id;uniqueIndex" json:"-"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Email     string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Phone     string    `gorm:"column:phone" json:"phone"`
	Role      string    `gorm:"column:role;type:varchar(10);default:'farmer'" json:"role,omitempty"`
	State     string    `gorm:"column:state" json:"state,omitempty"`
	Pincode   string    `gorm:"column:pincode" json:"pincode,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Producer) TableName() string {
	return "users"
}

func (p *Producer) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProducerContact is the shallow projection attached to search results.
type ProducerContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Contact projects p to name, email and phone. A nil producer projects to the zero value.
func (p *Producer) Contact() ProducerContact {
	if p == nil {
		return ProducerContact{}
	}
	return ProducerContact{Name: p.Name, Email: p.Email, Phone: p.Phone}
}
