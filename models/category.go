package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Nome      string    `gorm:"type:varchar(100);not null" json:"nome"`
	Descricao string    `gorm:"type:text" json:"descricao"`
	Ordem     int       `gorm:"not null;index" json:"ordem"`
	Ativa     bool      `gorm:"not null" json:"ativa"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Category) TableName() string {
	return "categorias"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
