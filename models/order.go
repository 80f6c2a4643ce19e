package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conventional order statuses. Status is free text, any value is accepted.
const (
	StatusEmPreparo       = "Em preparo"
	StatusAceito          = "Aceito"
	StatusRecusado        = "Recusado"
	StatusPronto          = "Pronto"
	StatusSaiuParaEntrega = "Saiu para entrega"
)

// Delivery modes.
const (
	ModoEntrega  = "Entrega"
	ModoRetirada = "Retirada"
)

type Order struct {
	ID             string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	NomeCliente    string      `gorm:"type:varchar(255);not null" json:"nome_cliente"`
	WhatsApp       string      `gorm:"column:whatsapp;type:varchar(32);not null" json:"whatsapp"`
	Endereco       *string     `gorm:"type:text" json:"endereco"`
	Status         string      `gorm:"type:varchar(40);not null;index" json:"status"`
	Total          float64     `gorm:"type:decimal(10,2);not null" json:"total"`
	DataPedido     time.Time   `gorm:"not null" json:"data_pedido"`
	ModoEntrega    string      `gorm:"type:varchar(20);not null" json:"modo_entrega"`
	FormaPagamento string      `gorm:"type:varchar(40);not null" json:"forma_pagamento"`
	Itens          []OrderItem `gorm:"foreignKey:PedidoID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"itens"`
	CreatedAt      time.Time   `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"not null" json:"updated_at"`
}

func (Order) TableName() string {
	return "pedidos"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// IsPickup reports whether the customer collects the order at the store.
func (o *Order) IsPickup() bool {
	return o.ModoEntrega == ModoRetirada
}

// Address returns the delivery address or an empty string.
func (o *Order) Address() string {
	if o.Endereco == nil {
		return ""
	}
	return *o.Endereco
}
