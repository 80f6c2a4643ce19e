package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Foto            string    `gorm:"type:varchar(512)" json:"foto"`
	Nome            string    `gorm:"type:varchar(255);not null" json:"nome"`
	Descricao       string    `gorm:"type:text" json:"descricao"`
	Valor           float64   `gorm:"type:decimal(10,2);not null" json:"valor"`
	Estoque         int       `gorm:"not null" json:"estoque"`
	Disponibilidade bool      `gorm:"not null" json:"disponibilidade"`
	CategoriaID     *string   `gorm:"type:varchar(36);index" json:"categoria_id"`
	Categoria       *Category `gorm:"foreignKey:CategoriaID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"categoria,omitempty"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string {
	return "produtos"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Orderable reports whether the product can be put in a cart: the admin
// flag must be on, there must be stock left and its category, when loaded,
// must be active.
func (p Product) Orderable() bool {
	if p.Categoria != nil && !p.Categoria.Ativa {
		return false
	}
	return p.Disponibilidade && p.Estoque > 0
}
