package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/bazaar-next/internal/config"
	"github.com/bazaar-next/internal/models"
)

func TestBuildOrderStatusContent(t *testing.T) {
	tests := []struct {
		name                string
		status              string
		wantSubjectContains []string
		wantBodyContains    []string
	}{
		{
			name:                "pending",
			status:              "pending",
			wantSubjectContains: []string{"BZ-TEST", "đã được tạo"},
			wantBodyContains:    []string{"đã được tạo", "Tổng tiền: 185000.00 VND"},
		},
		{
			name:                "shipped_uppercase",
			status:              "SHIPPED",
			wantSubjectContains: []string{"đang được giao"},
			wantBodyContains:    []string{"đang được giao"},
		},
		{
			name:                "cancelled",
			status:              "cancelled",
			wantSubjectContains: []string{"đã bị hủy"},
			wantBodyContains:    []string{"đã bị hủy"},
		},
		{
			name:                "unknown_status_passthrough",
			status:              "frozen",
			wantSubjectContains: []string{"frozen"},
			wantBodyContains:    []string{"frozen"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := buildOrderStatusContent(OrderStatusEmailInput{
				OrderNo:  "BZ-TEST",
				Status:   tt.status,
				Amount:   models.NewMoneyFromInt(185000),
				Currency: "VND",
			})
			for _, want := range tt.wantSubjectContains {
				if !strings.Contains(subject, want) {
					t.Fatalf("subject %q does not contain %q", subject, want)
				}
			}
			for _, want := range tt.wantBodyContains {
				if !strings.Contains(body, want) {
					t.Fatalf("body %q does not contain %q", body, want)
				}
			}
		})
	}
}

func TestSendOrderStatusEmailGuards(t *testing.T) {
	input := OrderStatusEmailInput{OrderNo: "BZ-TEST", Status: "pending"}

	svc := NewEmailService(nil)
	if err := svc.SendOrderStatusEmail("buyer@example.com", input); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected disabled, got: %v", err)
	}

	svc = NewEmailService(&config.EmailConfig{Enabled: true})
	if err := svc.SendOrderStatusEmail("buyer@example.com", input); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected not configured, got: %v", err)
	}

	svc = NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	if err := svc.SendOrderStatusEmail("not-an-email", input); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected invalid email, got: %v", err)
	}
}

func TestBuildFromAddress(t *testing.T) {
	if got := buildFromAddress("noreply@example.com", ""); got != "noreply@example.com" {
		t.Fatalf("expected bare address, got %s", got)
	}
	got := buildFromAddress("noreply@example.com", "Bazaar")
	if !strings.Contains(got, "noreply@example.com") || !strings.Contains(got, "Bazaar") {
		t.Fatalf("unexpected from address: %s", got)
	}
}

func TestBuildEmailMessage(t *testing.T) {
	msg := buildEmailMessage("a@example.com", "b@example.com", "Đơn hàng BZ-TEST", "body")
	if !strings.Contains(msg, "To: b@example.com\r\n") {
		t.Fatalf("missing To header: %s", msg)
	}
	if !strings.Contains(msg, "Content-Type: text/plain; charset=UTF-8\r\n") {
		t.Fatalf("missing content type: %s", msg)
	}
	if !strings.HasSuffix(msg, "\r\nbody") {
		t.Fatalf("body not last: %s", msg)
	}
}
