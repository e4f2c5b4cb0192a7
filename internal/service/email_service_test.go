package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/i18n"
	"github.com/bazaar-next/internal/models"
)

func TestBuildOrderStatusContent(t *testing.T) {
	tests := []struct {
		name                string
		locale              string
		status              string
		note                string
		wantSubjectContains []string
		wantBodyContains    []string
	}{
		{
			name:   "confirmed_zh",
			locale: i18n.LocaleZH,
			status: "confirmed",
			wantSubjectContains: []string{
				"订单状态更新",
				"已确认",
			},
			wantBodyContains: []string{
				"订单号：ATN-CONFIRM",
				"1080.00 BDT",
			},
		},
		{
			name:   "cancelled_en_with_note",
			locale: i18n.LocaleEN,
			status: "cancelled",
			note:   "Customer changed mind",
			wantSubjectContains: []string{
				"Order status updated",
				"Cancelled",
			},
			wantBodyContains: []string{
				"The order has been cancelled",
				"Order No: ATN-CANCEL",
				"Note: Customer changed mind",
			},
		},
		{
			name:   "delivered_unknown_locale_falls_back_to_en",
			locale: "fr-FR",
			status: "delivered",
			wantSubjectContains: []string{
				"Delivered",
			},
			wantBodyContains: []string{
				"Your order has been delivered",
			},
		},
		{
			name:   "out_for_delivery_bn_label",
			locale: i18n.LocaleBN,
			status: "out_for_delivery",
			wantSubjectContains: []string{
				"ডেলিভারির পথে",
			},
			wantBodyContains: []string{
				"ATN-OFD",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := OrderStatusEmailInput{
				OrderNumber: pickOrderNumber(tt.status),
				Status:      tt.status,
				Total:       models.MustMoney("1080"),
				Currency:    "BDT",
				Note:        tt.note,
			}
			subject, body := buildOrderStatusContent(input, tt.locale)
			for _, expected := range tt.wantSubjectContains {
				if !strings.Contains(subject, expected) {
					t.Fatalf("subject missing %q: %s", expected, subject)
				}
			}
			for _, expected := range tt.wantBodyContains {
				if !strings.Contains(body, expected) {
					t.Fatalf("body missing %q: %s", expected, body)
				}
			}
		})
	}
}

func pickOrderNumber(status string) string {
	switch status {
	case "confirmed":
		return "ATN-CONFIRM"
	case "cancelled":
		return "ATN-CANCEL"
	case "out_for_delivery":
		return "ATN-OFD"
	default:
		return "ATN-DELIVER"
	}
}

func TestBuildOrderConfirmationContent(t *testing.T) {
	estimated := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	order := &models.Order{
		OrderNumber:       "ATN-CONF-0001",
		GuestName:         "Rahim Uddin",
		Total:             models.MustMoney("1080"),
		Currency:          "BDT",
		PaymentMethod:     "cod",
		EstimatedDelivery: &estimated,
	}
	subject, body := buildOrderConfirmationContent(order, "https://shop.example.com", i18n.LocaleEN)
	if !strings.Contains(subject, "ATN-CONF-0001") {
		t.Fatalf("subject missing order number: %s", subject)
	}
	for _, expected := range []string{"Hi Rahim Uddin", "1080.00 BDT", "COD", "2026-03-06", "https://shop.example.com/track/ATN-CONF-0001"} {
		if !strings.Contains(body, expected) {
			t.Fatalf("body missing %q: %s", expected, body)
		}
	}
}

func TestOrderRecipientPrefersUserEmail(t *testing.T) {
	userID := "user-1"
	order := &models.Order{
		UserID:     &userID,
		GuestEmail: "guest@example.com",
		User:       &models.User{ID: userID, Email: "member@example.com"},
	}
	if got := OrderRecipient(order); got != "member@example.com" {
		t.Fatalf("expected member email, got %s", got)
	}
	order.User = nil
	if got := OrderRecipient(order); got != "guest@example.com" {
		t.Fatalf("expected guest email, got %s", got)
	}
}

func TestSendTextEmailDisabled(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})
	if err := svc.SendOrderStatusEmail("a@example.com", OrderStatusEmailInput{}, i18n.LocaleEN); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected ErrEmailServiceDisabled, got %v", err)
	}
	svc = NewEmailService(&config.EmailConfig{Enabled: true})
	if err := svc.SendOrderStatusEmail("a@example.com", OrderStatusEmailInput{}, i18n.LocaleEN); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected ErrEmailServiceNotConfigured, got %v", err)
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "smtp_550_no_such_recipient",
			err:  errors.New("550 No such recipient here"),
			want: true,
		},
		{
			name: "smtp_user_unknown",
			err:  errors.New("SMTP 5.1.1 user unknown"),
			want: true,
		},
		{
			name: "smtp_550_mailbox_unavailable",
			err:  errors.New("550 mailbox unavailable"),
			want: true,
		},
		{
			name: "network_timeout",
			err:  errors.New("dial tcp timeout"),
			want: false,
		},
		{
			name: "nil_error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmailRecipientRejected(tt.err); got != tt.want {
				t.Fatalf("isEmailRecipientRejected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	rejected := errors.New("550 No such recipient here")
	if got := normalizeEmailSendError(rejected); !errors.Is(got, ErrEmailRecipientRejected) {
		t.Fatalf("normalizeEmailSendError() expected ErrEmailRecipientRejected, got %v", got)
	}

	networkErr := errors.New("dial tcp timeout")
	if got := normalizeEmailSendError(networkErr); !errors.Is(got, networkErr) {
		t.Fatalf("normalizeEmailSendError() should keep original error, got %v", got)
	}

	if got := normalizeEmailSendError(nil); got != nil {
		t.Fatalf("normalizeEmailSendError(nil) should be nil, got %v", got)
	}
}
