package model

import (
	"encoding/json"
	"testing"
)

func TestOrderStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   OrderStatus
		value string
	}{
		{"pending", OrderStatusPending, "pending"},
		{"validated", OrderStatusValidated, "validated"},
		{"rejected", OrderStatusRejected, "rejected"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
			if !tc.got.Valid() {
				t.Fatalf("expected %s to be valid", tc.got)
			}
		})
	}

	if OrderStatus("NEW").Valid() {
		t.Fatal("unexpected valid status")
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPending, OrderStatusValidated, true},
		{OrderStatusPending, OrderStatusRejected, true},
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusValidated, OrderStatusRejected, false},
		{OrderStatusRejected, OrderStatusValidated, false},
		{OrderStatusValidated, OrderStatusPending, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.allowed {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestProductTypeValid(t *testing.T) {
	for _, pt := range ProductTypes {
		if !pt.Valid() {
			t.Fatalf("expected %q to be valid", pt)
		}
	}
	if ProductType("carton").Valid() {
		t.Fatal("unexpected valid product type")
	}
}

func TestCandidateSignals(t *testing.T) {
	var c Candidate
	if c.Usable() {
		t.Fatal("empty candidate must not be usable")
	}

	zero := 0.0
	c.Quantity = &zero
	if c.HasQuantity() {
		t.Fatal("zero quantity is not a signal")
	}

	c.Description = "sacs kraft"
	if !c.Usable() {
		t.Fatal("description alone should be usable")
	}
}

func TestNewOrderEvent(t *testing.T) {
	qty := 5000.0
	order := &Order{
		ID:              7,
		Number:          "CMD-1",
		ClientID:        3,
		Status:          OrderStatusRejected,
		ProductType:     ProductFlatBottomSachet,
		Quantity:        &qty,
		RejectionReason: "prix",
	}

	ev, err := NewOrderEvent(EventOrderRejected, order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.OrderID != 7 || ev.Kind != EventOrderRejected {
		t.Fatalf("unexpected event: %+v", ev)
	}

	var payload OrderEventPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Reason != "prix" {
		t.Fatalf("expected reason in payload, got %+v", payload)
	}
	if payload.Quantity != nil {
		t.Fatalf("rejected event should not carry quantity")
	}

	order.Status = OrderStatusValidated
	ev, err = NewOrderEvent(EventOrderValidated, order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	payload = OrderEventPayload{}
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Quantity == nil || *payload.Quantity != 5000 || payload.ProductType != ProductFlatBottomSachet {
		t.Fatalf("validated event should carry product and quantity, got %+v", payload)
	}
}
