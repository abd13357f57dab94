package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	for _, status := range []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCanceled,
	} {
		assert.True(t, status.Valid(), string(status))
	}

	assert.False(t, OrderStatus("").Valid())
	assert.False(t, OrderStatus("refunded").Valid())
}

func TestOrderStatusTransitions(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCanceled},
		OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCanceled},
		OrderStatusShipped:   {OrderStatusDelivered},
		OrderStatusDelivered: {},
		OrderStatusCanceled:  {},
	}

	all := []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCanceled,
	}

	for from, nexts := range allowed {
		allowedSet := make(map[OrderStatus]bool)
		for _, next := range nexts {
			allowedSet[next] = true
		}
		for _, to := range all {
			assert.Equal(t, allowedSet[to], from.CanTransitionTo(to),
				"%s -> %s", from, to)
		}
	}
}

func TestOrderIsTerminal(t *testing.T) {
	assert.False(t, (&Order{Status: OrderStatusPending}).IsTerminal())
	assert.False(t, (&Order{Status: OrderStatusConfirmed}).IsTerminal())
	assert.False(t, (&Order{Status: OrderStatusShipped}).IsTerminal())
	assert.True(t, (&Order{Status: OrderStatusDelivered}).IsTerminal())
	assert.True(t, (&Order{Status: OrderStatusCanceled}).IsTerminal())
}

func TestVerificationCodeExpiry(t *testing.T) {
	live := &VerificationCode{ExpiresAt: time.Now().UTC().Add(30 * time.Minute)}
	assert.False(t, live.IsExpired())

	expired := &VerificationCode{ExpiresAt: time.Now().UTC().Add(-time.Minute)}
	assert.True(t, expired.IsExpired())
}

func TestValidVerificationPurpose(t *testing.T) {
	assert.True(t, ValidVerificationPurpose(VerificationPurposeSignup))
	assert.True(t, ValidVerificationPurpose(VerificationPurposeLogin))
	assert.False(t, ValidVerificationPurpose(""))
	assert.False(t, ValidVerificationPurpose("reset"))
}

func TestValidProductUnit(t *testing.T) {
	assert.True(t, ValidProductUnit(ProductUnitBottle))
	assert.True(t, ValidProductUnit(ProductUnitPack))
	assert.True(t, ValidProductUnit(ProductUnitKilo))
	assert.False(t, ValidProductUnit("crate"))
}
