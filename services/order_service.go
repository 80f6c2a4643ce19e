package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/bakery-app/cart"
	"github.com/yeremiapane/bakery-app/hub"
	"github.com/yeremiapane/bakery-app/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("github.com/yeremiapane/bakery-app/services")

// OrderDraft is the checkout form.
type OrderDraft struct {
	NomeCliente    string `json:"nome_cliente"`
	WhatsApp       string `json:"whatsapp"`
	Endereco       string `json:"endereco"`
	ModoEntrega    string `json:"modo_entrega"`
	FormaPagamento string `json:"forma_pagamento"`
}

// Validate checks the required checkout fields. The address is only
// required for delivery.
func (d *OrderDraft) Validate() error {
	d.NomeCliente = strings.TrimSpace(d.NomeCliente)
	d.WhatsApp = strings.TrimSpace(d.WhatsApp)
	d.Endereco = strings.TrimSpace(d.Endereco)
	d.ModoEntrega = strings.TrimSpace(d.ModoEntrega)
	d.FormaPagamento = strings.TrimSpace(d.FormaPagamento)

	if d.NomeCliente == "" || d.WhatsApp == "" || d.ModoEntrega == "" || d.FormaPagamento == "" {
		return newValidationError("Preencha todos os campos obrigatórios!")
	}
	if d.ModoEntrega == models.ModoEntrega && d.Endereco == "" {
		return newValidationError("Preencha todos os campos obrigatórios!")
	}
	return nil
}

// CheckoutResult is what the customer gets back after a successful order.
type CheckoutResult struct {
	Order       *models.Order `json:"pedido"`
	WhatsAppURL string        `json:"whatsapp_url"`
}

// StatusResult carries the updated order and, when the customer should be
// told, the link to message them.
type StatusResult struct {
	Order       *models.Order `json:"pedido"`
	WhatsAppURL string        `json:"whatsapp_url,omitempty"`
}

// OrderFilter narrows the admin order list.
type OrderFilter struct {
	Status string
}

// DashboardStats backs the admin dashboard.
type DashboardStats struct {
	TotalOrders   int64            `json:"total_orders"`
	ByStatus      map[string]int64 `json:"by_status"`
	OrdersToday   int64            `json:"orders_today"`
	RevenueToday  float64          `json:"revenue_today"`
	RevenueTotal  float64          `json:"revenue_total"`
	LowStockCount int64            `json:"low_stock_count"`
}

// LowStockThreshold is the stock level at which the dashboard flags a
// product.
const LowStockThreshold = 5

type OrderService struct {
	db        *gorm.DB
	log       *logrus.Logger
	hub       Broadcaster
	messenger *Messenger
	now       func() time.Time
}

func NewOrderService(db *gorm.DB, log *logrus.Logger, b Broadcaster, m *Messenger) *OrderService {
	return &OrderService{
		db:        db,
		log:       log,
		hub:       b,
		messenger: m,
		now:       time.Now,
	}
}

// Submit validates the draft and stores the order, its items and the stock
// decrements in one transaction. The cart itself is not touched.
func (s *OrderService) Submit(ctx context.Context, draft OrderDraft, c *cart.Cart) (*CheckoutResult, error) {
	ctx, span := tracer.Start(ctx, "OrderService.Submit")
	defer span.End()

	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if c == nil || c.IsEmpty() {
		return nil, newValidationError("O carrinho está vazio")
	}

	order := models.Order{
		NomeCliente:    draft.NomeCliente,
		WhatsApp:       draft.WhatsApp,
		Status:         models.StatusEmPreparo,
		Total:          c.Total(),
		DataPedido:     s.now().UTC(),
		ModoEntrega:    draft.ModoEntrega,
		FormaPagamento: draft.FormaPagamento,
	}
	if draft.Endereco != "" {
		endereco := draft.Endereco
		order.Endereco = &endereco
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Itens").Create(&order).Error; err != nil {
			return fmt.Errorf("error creating order: %w", err)
		}

		for _, line := range c.Items() {
			productID := line.ProductID
			item := models.OrderItem{
				PedidoID:      order.ID,
				ProdutoID:     &productID,
				ProdutoNome:   line.Name,
				Quantidade:    line.Quantity,
				ValorUnitario: line.UnitPrice,
				Subtotal:      line.Subtotal,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("error creating order item: %w", err)
			}
			order.Itens = append(order.Itens, item)

			if _, err := decrementStock(tx, productID, line.Quantity); err != nil {
				if errors.Is(err, ErrNotFound) {
					s.log.Warnf("Product %s (%s) no longer exists, stock not updated", line.Name, productID)
					continue
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Errorf("Checkout failed for %s: %v", draft.NomeCliente, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Int("order.items", len(order.Itens)),
		attribute.Float64("order.total", order.Total),
	)
	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"total":    order.Total,
		"items":    len(order.Itens),
	}).Info("Order created")

	message := s.messenger.NewOrderMessage(&order)
	link := s.messenger.Link(s.messenger.BusinessNumber, message)
	s.record(ctx, &order, s.messenger.BusinessNumber, models.NotificationNewOrder, message, link)
	broadcast(s.hub, hub.EventOrderCreated, order)

	return &CheckoutResult{Order: &order, WhatsAppURL: link}, nil
}

// UpdateStatus sets any non-empty status. Customers get a message link when
// the order is accepted, refused, out for delivery, or ready for pickup.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*StatusResult, error) {
	ctx, span := tracer.Start(ctx, "OrderService.UpdateStatus", trace.WithAttributes(
		attribute.String("order.id", id),
		attribute.String("order.status", status),
	))
	defer span.End()

	status = strings.TrimSpace(status)
	if status == "" {
		return nil, newValidationError("status is required")
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).Update("status", status).Error
	if err != nil {
		span.RecordError(err)
		s.log.Errorf("Error updating status of order %s: %v", id, err)
		return nil, fmt.Errorf("error updating order status: %w", err)
	}
	order.Status = status
	s.log.Infof("Order %s of %s is now %s", order.ID, order.NomeCliente, status)

	result := &StatusResult{Order: order}
	if text, ok := s.messenger.StatusMessage(order, status); ok {
		recipient := s.messenger.CustomerNumber(order.WhatsApp)
		result.WhatsAppURL = s.messenger.Link(recipient, text)
		s.record(ctx, order, recipient, models.NotificationStatusUpdate, text, result.WhatsAppURL)
	}

	broadcast(s.hub, hub.EventOrderStatus, order)
	return result, nil
}

// Delete removes the order and its items together.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pedido_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, "id = ?", id).Error
	})
	if err != nil {
		s.log.Errorf("Error deleting order %s: %v", id, err)
		return fmt.Errorf("error deleting order: %w", err)
	}

	s.log.Infof("Order %s deleted", id)
	broadcast(s.hub, hub.EventOrderDeleted, map[string]string{"id": id})
	return nil
}

// List returns orders newest first.
func (s *OrderService) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	q := s.db.WithContext(ctx).Preload("Itens").Order("data_pedido DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Find(&orders).Error; err != nil {
		s.log.Errorf("Error fetching orders: %v", err)
		return nil, fmt.Errorf("error fetching orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Itens").First(&order, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "order")
	}
	return &order, nil
}

// Stats summarizes orders for the dashboard. Refused orders do not count
// as revenue.
func (s *OrderService) Stats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{ByStatus: make(map[string]int64)}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("error counting orders: %w", err)
	}
	for _, r := range rows {
		stats.ByStatus[r.Status] = r.Count
		stats.TotalOrders += r.Count
	}

	now := s.now()
	if s.messenger != nil && s.messenger.Location != nil {
		now = now.In(s.messenger.Location)
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).UTC()

	if err := db.Model(&models.Order{}).Where("data_pedido >= ?", startOfDay).Count(&stats.OrdersToday).Error; err != nil {
		return nil, fmt.Errorf("error counting today's orders: %w", err)
	}
	if err := db.Model(&models.Order{}).
		Where("status <> ? AND data_pedido >= ?", models.StatusRecusado, startOfDay).
		Select("COALESCE(SUM(total), 0)").Scan(&stats.RevenueToday).Error; err != nil {
		return nil, fmt.Errorf("error summing today's revenue: %w", err)
	}
	if err := db.Model(&models.Order{}).
		Where("status <> ?", models.StatusRecusado).
		Select("COALESCE(SUM(total), 0)").Scan(&stats.RevenueTotal).Error; err != nil {
		return nil, fmt.Errorf("error summing revenue: %w", err)
	}
	if err := db.Model(&models.Product{}).Where("estoque <= ?", LowStockThreshold).Count(&stats.LowStockCount).Error; err != nil {
		return nil, fmt.Errorf("error counting low stock products: %w", err)
	}

	return stats, nil
}

// Notifications lists the recorded message links, newest first.
func (s *OrderService) Notifications(ctx context.Context, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&notifications).Error; err != nil {
		s.log.Errorf("Error fetching notifications: %v", err)
		return nil, fmt.Errorf("error fetching notifications: %w", err)
	}
	return notifications, nil
}

// record stores the outbound link. Failures are logged only; the order
// itself is already committed.
func (s *OrderService) record(ctx context.Context, order *models.Order, recipient, kind, message, link string) {
	orderID := order.ID
	n := models.Notification{
		PedidoID:  &orderID,
		Recipient: recipient,
		Kind:      kind,
		Message:   message,
		Link:      link,
	}
	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		s.log.Errorf("Error recording %s notification for order %s: %v", kind, orderID, err)
	}
}
