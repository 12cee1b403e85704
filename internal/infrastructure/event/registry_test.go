package event

import (
	"context"
	"testing"

	"github.com/shopapi/backend/internal/domain/shared"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	typed := &recordingHandler{}
	other := &recordingHandler{}
	wildcard := &recordingHandler{}

	r.Register(typed, "order.placed", "order.cancelled")
	r.Register(other, "order.placed")
	r.Register(wildcard)

	handlers := r.HandlersFor("order.placed")
	assert.Len(t, handlers, 3)
	assert.Same(t, typed, handlers[0])
	assert.Same(t, wildcard, handlers[2])

	assert.Len(t, r.HandlersFor("user.registered"), 1)

	r.Unregister(typed)
	assert.Len(t, r.HandlersFor("order.placed"), 2)
	assert.Len(t, r.HandlersFor("order.cancelled"), 1)
	_, ok := r.handlers["order.cancelled"]
	assert.False(t, ok)

	r.Unregister(wildcard)
	assert.Empty(t, r.HandlersFor("user.registered"))
}

// sliceHandler is a value handler whose type cannot be compared with ==
type sliceHandler struct {
	types []string
}

func (h sliceHandler) Handle(context.Context, shared.DomainEvent) error { return nil }

func (h sliceHandler) EventTypes() []string { return h.types }

func TestHandlerRegistry_UnregisterNonComparableHandler(t *testing.T) {
	r := NewHandlerRegistry()
	pointer := &recordingHandler{}
	value := sliceHandler{types: []string{"order.placed"}}

	r.Register(value, "order.placed")
	r.Register(pointer, "order.placed")

	assert.NotPanics(t, func() { r.Unregister(pointer) })
	assert.NotPanics(t, func() { r.Unregister(value) })

	handlers := r.HandlersFor("order.placed")
	assert.Len(t, handlers, 1)
	assert.IsType(t, sliceHandler{}, handlers[0])
}
