package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// TelegramService sends admin notifications through the Telegram bot API.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService. Empty credentials turn
// the service into a logging no-op so local setups work without a bot.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// OrderNotification carries order data for the admin notification.
type OrderNotification struct {
	OrderNumber   string
	CustomerName  string
	CustomerPhone string
	Comment       string
	Items         []OrderItemNotification
	TotalAmount   float64
}

// OrderItemNotification is one line of the order.
type OrderItemNotification struct {
	Name      string
	SizeLabel string
	Color     string
	Quantity  int
	UnitPrice float64
}

// FormatPrice formats an AMD amount with thousand separators.
func FormatPrice(amount float64) string {
	str := fmt.Sprintf("%d", int64(amount))

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return result.String() + " AMD"
}

// NotifyNewOrder sends a new-order notification to the admin chat.
func (s *TelegramService) NotifyNewOrder(order OrderNotification) error {
	if s.adminChatID == "" {
		return nil
	}

	var itemsList strings.Builder
	for i, item := range order.Items {
		lineTotal := item.UnitPrice * float64(item.Quantity)
		itemsList.WriteString(fmt.Sprintf("%d. <b>%s</b> (%s, %s)\n   %d x %s = %s\n",
			i+1,
			item.Name,
			item.SizeLabel,
			item.Color,
			item.Quantity,
			FormatPrice(item.UnitPrice),
			FormatPrice(lineTotal),
		))
	}

	message := fmt.Sprintf(`<b>🛒 Նոր պատվեր</b>
<b>📋 Պատվեր:</b> %s
<b>👤 Հաճախորդ:</b> %s
<b>📞 Հեռախոս:</b> %s
<b>📦 Ապրանքներ:</b>
%s
<b>💰 Ընդամենը:</b> %s
<b>💬 Մեկնաբանություն:</b> %s
━━━━━━━━━━━━━━━━━━`,
		order.OrderNumber,
		order.CustomerName,
		order.CustomerPhone,
		itemsList.String(),
		FormatPrice(order.TotalAmount),
		order.Comment,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}
