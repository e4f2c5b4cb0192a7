package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/constants"
	"github.com/bazaar-next/internal/i18n"
	"github.com/bazaar-next/internal/models"
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 是否已启用并配置
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled && s.cfg.Host != "" && s.cfg.Port != 0 && s.cfg.From != ""
}

// AdminEmail 管理员通知邮箱
func (s *EmailService) AdminEmail() string {
	if s == nil || s.cfg == nil {
		return ""
	}
	return strings.TrimSpace(s.cfg.AdminEmail)
}

// SendOrderConfirmation 发送下单确认邮件
func (s *EmailService) SendOrderConfirmation(toEmail string, order *models.Order, locale string) error {
	subject, body := buildOrderConfirmationContent(order, s.storefrontURL(), locale)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendAdminNewOrder 发送新订单管理员通知
func (s *EmailService) SendAdminNewOrder(order *models.Order, locale string) error {
	subject, body := buildAdminNewOrderContent(order, s.adminURL(), locale)
	return s.sendTextEmail(s.AdminEmail(), subject, body)
}

// OrderStatusEmailInput 订单状态邮件输入
type OrderStatusEmailInput struct {
	OrderNumber string
	Status      string
	Total       models.Money
	Currency    string
	Note        string
}

// SendOrderStatusEmail 发送订单状态通知
func (s *EmailService) SendOrderStatusEmail(toEmail string, input OrderStatusEmailInput, locale string) error {
	subject, body := buildOrderStatusContent(input, locale)
	return s.sendTextEmail(toEmail, subject, body)
}

// SendLowStockAlert 发送低库存提醒给管理员
func (s *EmailService) SendLowStockAlert(alert LowStockAlert, locale string) error {
	normalized := normalizeLocale(locale)
	label := alert.SKU
	if label == "" {
		label = alert.VariantID
	}
	subject := i18n.Sprintf(normalized, "email.low_stock.subject", label)
	body := i18n.Sprintf(normalized, "email.low_stock.body", alert.ProductName, alert.SKU, alert.Stock, alert.Threshold)
	return s.sendTextEmail(s.AdminEmail(), subject, body)
}

func (s *EmailService) storefrontURL() string {
	if s == nil || s.cfg == nil {
		return ""
	}
	return strings.TrimRight(strings.TrimSpace(s.cfg.StorefrontURL), "/")
}

func (s *EmailService) adminURL() string {
	if s == nil || s.cfg == nil {
		return ""
	}
	return strings.TrimRight(strings.TrimSpace(s.cfg.AdminURL), "/")
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s == nil || s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return normalizeEmailSendError(sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
	}
	if s.cfg.UseTLS {
		return normalizeEmailSendError(sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
	}
	return normalizeEmailSendError(sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg)))
}

// OrderRecipient 订单通知收件人：登录用户取用户邮箱，游客取下单邮箱
func OrderRecipient(order *models.Order) string {
	if order == nil {
		return ""
	}
	if order.User != nil && strings.TrimSpace(order.User.Email) != "" {
		return strings.TrimSpace(order.User.Email)
	}
	return strings.TrimSpace(order.GuestEmail)
}

func orderCustomerName(order *models.Order) string {
	if order.User != nil {
		if name := strings.TrimSpace(order.User.FullName()); name != "" {
			return name
		}
	}
	if name := strings.TrimSpace(order.GuestName); name != "" {
		return name
	}
	if order.ShippingAddress != nil {
		return order.ShippingAddress.RecipientName
	}
	return ""
}

func statusLabel(locale, status string) string {
	key := "order.status." + strings.ToLower(strings.TrimSpace(status))
	label := i18n.T(locale, key)
	if label == key {
		return status
	}
	return label
}

func buildOrderConfirmationContent(order *models.Order, storefrontURL, locale string) (string, string) {
	normalized := normalizeLocale(locale)
	subject := i18n.Sprintf(normalized, "email.order_confirmation.subject", order.OrderNumber)
	estimated := "-"
	if order.EstimatedDelivery != nil {
		estimated = order.EstimatedDelivery.Format("2006-01-02")
	}
	body := i18n.Sprintf(normalized, "email.order_confirmation.body",
		orderCustomerName(order),
		order.OrderNumber,
		order.Total.String(),
		order.Currency,
		strings.ToUpper(order.PaymentMethod),
		estimated,
	)
	if storefrontURL != "" {
		body += "\n\n" + i18n.Sprintf(normalized, "email.order_confirmation.track_link", storefrontURL+"/track/"+order.OrderNumber)
	}
	return subject, body
}

func buildAdminNewOrderContent(order *models.Order, adminURL, locale string) (string, string) {
	normalized := normalizeLocale(locale)
	subject := i18n.Sprintf(normalized, "email.admin_new_order.subject", order.OrderNumber)
	body := i18n.Sprintf(normalized, "email.admin_new_order.body",
		order.OrderNumber,
		orderCustomerName(order),
		len(order.Items),
		order.Total.String(),
		order.Currency,
		strings.ToUpper(order.PaymentMethod),
	)
	if adminURL != "" {
		body += "\n\n" + i18n.Sprintf(normalized, "email.admin_new_order.link", adminURL+"/orders/"+order.ID)
	}
	return subject, body
}

func buildOrderStatusContent(input OrderStatusEmailInput, locale string) (string, string) {
	normalized := normalizeLocale(locale)
	label := statusLabel(normalized, input.Status)
	amount := input.Total.String()
	currency := strings.TrimSpace(input.Currency)
	subject := i18n.Sprintf(normalized, "email.order_status.subject", label)

	key := "email.order_status.body"
	switch strings.ToLower(strings.TrimSpace(input.Status)) {
	case constants.OrderStatusCancelled:
		key = "email.order_status.body_cancelled"
	case constants.OrderStatusDelivered:
		key = "email.order_status.body_delivered"
	}
	body := i18n.Sprintf(normalized, key, input.OrderNumber, label, amount, currency)
	if note := strings.TrimSpace(input.Note); note != "" {
		body += "\n\n" + i18n.Sprintf(normalized, "email.order_status.note", note)
	}
	return subject, body
}

func normalizeLocale(locale string) string {
	if normalized := i18n.NormalizeLocale(locale); normalized != "" {
		return normalized
	}
	return i18n.DefaultLocale
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	_, err = w.Write(msg)
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return ErrEmailRecipientRejected
	}
	return err
}

func isEmailRecipientRejected(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	directKeywords := []string{
		"no such recipient",
		"no such user",
		"recipient not found",
		"recipient address rejected",
		"invalid recipient",
		"user unknown",
		"unknown user",
		"unknown mailbox",
		"mailbox unavailable",
	}
	for _, keyword := range directKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	if strings.Contains(message, "550") {
		hints := []string{"recipient", "user", "mailbox", "address", "rcpt"}
		for _, hint := range hints {
			if strings.Contains(message, hint) {
				return true
			}
		}
	}
	return false
}
