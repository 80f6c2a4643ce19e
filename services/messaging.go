package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/utils"
)

// Messenger builds WhatsApp deep links and the texts they carry. Nothing is
// sent from the server; the link is handed back to the client.
type Messenger struct {
	Host           string
	BusinessNumber string
	CountryCode    string
	StoreName      string
	Instagram      string
	PickupAddress  string
	Location       *time.Location
}

// Link returns https://<host>/<digits>?text=<escaped text>.
func (m *Messenger) Link(number, text string) string {
	host := strings.TrimSuffix(m.Host, "/")
	if host == "" {
		host = "wa.me"
	}
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return fmt.Sprintf("https://%s/%s?text=%s", host, digitsOnly(number), escaped)
}

// CustomerNumber normalizes a number typed by a customer. Local numbers
// (area code plus 8 or 9 digits) get the country code.
func (m *Messenger) CustomerNumber(raw string) string {
	digits := digitsOnly(raw)
	if len(digits) == 10 || len(digits) == 11 {
		return m.CountryCode + digits
	}
	return digits
}

// NewOrderMessage is the summary the customer sends to the store.
func (m *Messenger) NewOrderMessage(order *models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🧁 *NOVO PEDIDO - %s*\n\n", m.StoreName)
	fmt.Fprintf(&b, "👤 *Cliente:* %s\n", order.NomeCliente)
	fmt.Fprintf(&b, "📱 *WhatsApp:* %s", order.WhatsApp)

	if order.IsPickup() {
		fmt.Fprintf(&b, "\n🚚 *Entrega:* %s\n\n", order.ModoEntrega)
		b.WriteString("📍 *LOCAL PARA RETIRADA:*\n")
		if m.Instagram != "" {
			fmt.Fprintf(&b, "• Instagram: %s\n", m.Instagram)
		}
		fmt.Fprintf(&b, "• WhatsApp: %s\n", m.BusinessNumber)
		fmt.Fprintf(&b, "• Endereço: %s", m.PickupAddress)
	} else {
		fmt.Fprintf(&b, "\n🏠 *Endereço:* %s", order.Address())
		fmt.Fprintf(&b, "\n🚚 *Entrega:* %s (Valor de entrega: A combinar no WhatsApp)", order.ModoEntrega)
	}

	fmt.Fprintf(&b, "\n💳 *Pagamento:* %s\n\n", order.FormaPagamento)
	b.WriteString("📦 *Itens do pedido:*\n")
	for i, item := range order.Itens {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• %dx %s - %s", item.Quantidade, item.ProdutoNome, utils.FormatBRL(item.Subtotal))
	}

	fmt.Fprintf(&b, "\n\n💰 *Total: %s*\n\n", utils.FormatBRL(order.Total))
	b.WriteString("⏰ *Tempo médio de preparo:* \n")
	if order.IsPickup() {
		b.WriteString("20 à 40 minutos")
	} else {
		b.WriteString("20 à 40 minutos + tempo de entrega")
	}
	fmt.Fprintf(&b, "\n\n⏰ *Pedido feito em:* %s", m.timestamp(order.DataPedido))

	return b.String()
}

// StatusMessage is the text sent to the customer when the order moves to
// status. ok is false for statuses the customer is not told about.
func (m *Messenger) StatusMessage(order *models.Order, status string) (string, bool) {
	greeting := fmt.Sprintf("Olá %s! ", order.NomeCliente)
	signature := fmt.Sprintf("\n\n%s 🧁", m.StoreName)

	switch status {
	case models.StatusAceito:
		return greeting + fmt.Sprintf("Seu pedido de %s foi *aceito* e já está sendo preparado.", utils.FormatBRL(order.Total)) + signature, true
	case models.StatusRecusado:
		return greeting + "Infelizmente não conseguimos atender seu pedido desta vez. Entre em contato para mais detalhes." + signature, true
	case models.StatusSaiuParaEntrega:
		return greeting + fmt.Sprintf("Seu pedido *saiu para entrega* e logo chega em: %s.", order.Address()) + signature, true
	case models.StatusPronto:
		if !order.IsPickup() {
			return "", false
		}
		return greeting + fmt.Sprintf("Seu pedido está *pronto para retirada* em: %s.", m.PickupAddress) + signature, true
	}
	return "", false
}

// timestamp renders t like pt-BR toLocaleString: 02/01/2006, 15:04:05.
func (m *Messenger) timestamp(t time.Time) string {
	loc := m.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02/01/2006, 15:04:05")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
