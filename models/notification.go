package models

import (
	"time"
)

const (
	NotificationNewOrder     = "new_order"
	NotificationStatusUpdate = "status_update"
)

// Notification records an outbound message link handed to the client.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PedidoID  *string   `gorm:"type:varchar(36);index" json:"pedido_id"`
	Recipient string    `gorm:"type:varchar(32);not null" json:"recipient"`
	Kind      string    `gorm:"type:varchar(30);not null" json:"kind"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Link      string    `gorm:"type:text;not null" json:"link"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
