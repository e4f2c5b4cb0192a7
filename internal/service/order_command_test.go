package service

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/bazaar-next/internal/constants"

	"github.com/stretchr/testify/require"
)

func TestIsBangladeshPhone(t *testing.T) {
	cases := map[string]bool{
		"01712345678":    true,
		"+8801912345678": true,
		" 01312345678 ":  true,
		"01212345678":    false,
		"0171234567":     false,
		"8801712345678":  false,
		"":               false,
	}
	for phone, want := range cases {
		require.Equal(t, want, IsBangladeshPhone(phone), phone)
	}
}

func TestCreateOrderCommandValidate(t *testing.T) {
	t.Run("items_required", func(t *testing.T) {
		cmd := guestOrderCommand()
		require.ErrorIs(t, cmd.Validate(), ErrOrderItemsRequired)
	})

	t.Run("guest_fields_required", func(t *testing.T) {
		cmd := guestOrderCommand(OrderLineInput{ProductID: "p1", Quantity: 1})
		cmd.GuestPhone = "  "
		require.ErrorIs(t, cmd.Validate(), ErrGuestInfoRequired)
	})

	t.Run("user_does_not_need_guest_fields", func(t *testing.T) {
		cmd := CreateOrderCommand{
			Items:           []OrderLineInput{{ProductID: "p1", Quantity: 1}},
			ShippingAddress: dhakaAddress(),
			PaymentMethod:   "COD",
			Identity:        Identity{UserID: "u1", Role: constants.RoleCustomer},
		}
		require.NoError(t, cmd.Validate())
		require.Equal(t, constants.PaymentMethodCOD, cmd.PaymentMethod)
	})

	t.Run("field_errors", func(t *testing.T) {
		cmd := guestOrderCommand(OrderLineInput{ProductID: "p1", Quantity: 0})
		cmd.ShippingAddress.Phone = "12345"
		cmd.PaymentMethod = "paypal"
		err := cmd.Validate()
		require.ErrorIs(t, err, ErrInvalidInput)
		fields := FieldErrors(err)
		require.Contains(t, fields, "items[0].quantity")
		require.Contains(t, fields, "shippingAddress.phone")
		require.Contains(t, fields, "paymentMethod")
		require.Equal(t, "must be a valid Bangladeshi phone number", fields["shippingAddress.phone"])
	})

	t.Run("guest_email_format", func(t *testing.T) {
		cmd := guestOrderCommand(OrderLineInput{ProductID: "p1", Quantity: 1})
		cmd.GuestEmail = "not-an-email"
		err := cmd.Validate()
		require.ErrorIs(t, err, ErrInvalidInput)
		require.Contains(t, FieldErrors(err), "guestEmail")
	})
}

func TestUpdateStatusCommandValidate(t *testing.T) {
	cmd := UpdateStatusCommand{OrderID: "o1", Status: " Shipped "}
	require.NoError(t, cmd.Validate())
	require.Equal(t, constants.OrderStatusShipped, cmd.Status)

	cmd = UpdateStatusCommand{OrderID: "o1", Status: "lost"}
	require.Contains(t, FieldErrors(cmd.Validate()), "status")

	cmd = UpdateStatusCommand{OrderID: "o1", Status: "confirmed", PaymentStatus: "maybe"}
	require.Contains(t, FieldErrors(cmd.Validate()), "paymentStatus")
}

func TestTrackOrderQueryValidate(t *testing.T) {
	query := TrackOrderQuery{OrderNumber: " atn-abc-0001 "}
	require.ErrorIs(t, query.Validate(), ErrTrackContactRequired)
	require.Equal(t, "ATN-ABC-0001", query.OrderNumber)

	query = TrackOrderQuery{OrderNumber: "ATN-ABC-0001", Phone: "01712345678"}
	require.NoError(t, query.Validate())
}

func TestAdjustStockCommandValidate(t *testing.T) {
	cmd := AdjustStockCommand{VariantID: "v1", Type: "Purchase", Quantity: 5}
	require.NoError(t, cmd.Validate())

	cmd = AdjustStockCommand{VariantID: "v1", Type: "sale", Quantity: 5}
	require.Contains(t, FieldErrors(cmd.Validate()), "type")

	cmd = AdjustStockCommand{VariantID: "v1", Type: "damage"}
	require.Contains(t, FieldErrors(cmd.Validate()), "quantity")
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{constants.OrderStatusPending, constants.OrderStatusConfirmed},
		{constants.OrderStatusPending, constants.OrderStatusCancelled},
		{constants.OrderStatusConfirmed, constants.OrderStatusProcessing},
		{constants.OrderStatusProcessing, constants.OrderStatusShipped},
		{constants.OrderStatusShipped, constants.OrderStatusOutForDelivery},
		{constants.OrderStatusShipped, constants.OrderStatusDelivered},
		{constants.OrderStatusOutForDelivery, constants.OrderStatusDelivered},
		{constants.OrderStatusDelivered, constants.OrderStatusRefunded},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s allowed", pair[0], pair[1])
		}
	}
	rejected := [][2]string{
		{constants.OrderStatusPending, constants.OrderStatusShipped},
		{constants.OrderStatusShipped, constants.OrderStatusCancelled},
		{constants.OrderStatusDelivered, constants.OrderStatusCancelled},
		{constants.OrderStatusCancelled, constants.OrderStatusPending},
		{constants.OrderStatusRefunded, constants.OrderStatusDelivered},
		{constants.OrderStatusPending, constants.OrderStatusPending},
	}
	for _, pair := range rejected {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s rejected", pair[0], pair[1])
		}
	}
}

func TestShippingCalculator(t *testing.T) {
	calc := NewShippingCalculator(testOrderConfig().Shipping)
	cases := []struct {
		city     string
		district string
		want     string
	}{
		{city: "Dhaka", district: "Gazipur", want: "80.00"},
		{city: "DHAKA CITY", district: "", want: "80.00"},
		{city: "Savar", district: "Dhaka", want: "80.00"},
		{city: "Sylhet", district: "Sylhet", want: "130.00"},
		{city: "Dhakaa", district: "Khulna", want: "130.00"},
	}
	for _, tc := range cases {
		if got := calc.Cost(tc.city, tc.district); got.String() != tc.want {
			t.Fatalf("%s/%s: want %s, got %s", tc.city, tc.district, tc.want, got.String())
		}
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^ATN-[0-9A-Z]+-[0-9A-Z]{4}$`)
	now := time.UnixMilli(1700000000000)
	seen := make(map[string]struct{}, 200)
	for i := 0; i < 200; i++ {
		number := generateOrderNumber("ATN", now)
		if !pattern.MatchString(number) {
			t.Fatalf("unexpected order number format: %s", number)
		}
		seen[number] = struct{}{}
	}
	if len(seen) < 190 {
		t.Fatalf("expected random suffix to vary, got %d unique", len(seen))
	}
	if got := generateOrderNumber("", now); !pattern.MatchString(got) {
		t.Fatalf("expected default prefix, got %s", got)
	}
}

func TestReasonAndKind(t *testing.T) {
	err := withDetail(ErrInsufficientStock, "Polo")
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected detail error to unwrap to base")
	}
	if ReasonOf(err) != "insufficient_stock" || KindOf(err) != ErrorKindConflict {
		t.Fatalf("unexpected classification: %s/%s", ReasonOf(err), KindOf(err))
	}
	wrapped := wrapStorageError(ErrOrderCreateFailed, errors.New("disk full"))
	if !errors.Is(wrapped, ErrOrderCreateFailed) || KindOf(wrapped) != ErrorKindInternal {
		t.Fatalf("expected storage failure wrapped as internal")
	}
	if wrapStorageError(ErrOrderCreateFailed, ErrOrderNotFound) != ErrOrderNotFound {
		t.Fatalf("business errors must pass through unchanged")
	}
}
