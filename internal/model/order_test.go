package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusShipped, StatusCancelled, StatusHold, StatusRefunded} {
		assert.True(t, s.Valid(), "expected %s to be valid", s)
	}

	assert.False(t, OrderStatus("").Valid())
	assert.False(t, OrderStatus("pending").Valid(), "status values are case sensitive")
	assert.False(t, OrderStatus("Delivered").Valid())
}

func TestOrderStatus_CanCancel(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   bool
	}{
		{StatusPending, true},
		{StatusHold, true},
		{StatusShipped, false},
		{StatusCancelled, false},
		{StatusRefunded, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.CanCancel(), "status %s", tt.status)
	}
}
