package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem is the snapshot of a cart line taken at checkout.
type OrderItem struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PedidoID      string    `gorm:"type:varchar(36);not null;index" json:"pedido_id"`
	ProdutoID     *string   `gorm:"type:varchar(36);index" json:"produto_id"`
	ProdutoNome   string    `gorm:"type:varchar(255);not null" json:"produto_nome"`
	Quantidade    int       `gorm:"not null" json:"quantidade"`
	ValorUnitario float64   `gorm:"type:decimal(10,2);not null" json:"valor_unitario"`
	Subtotal      float64   `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

func (OrderItem) TableName() string {
	return "itens_pedido"
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
