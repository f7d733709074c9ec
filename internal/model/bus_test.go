package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/nording/hrvctl/internal/model"
)

func TestSubscribeFieldFilter(t *testing.T) {
	bus := model.NewBus()
	sub := bus.Subscribe(8, model.FieldHRVTarget)
	defer sub.Close()

	bus.Publish(model.Update{Field: model.FieldStatus, Value: model.String("ignored")})
	bus.Publish(model.Update{Field: model.FieldHRVTarget, Value: model.Int(300)})

	require.Len(t, sub.C, 1)
	u := <-sub.C
	assert.Equal(t, model.FieldHRVTarget, u.Field)
	assert.Equal(t, int64(300), u.Value.Int())
}

func TestPublishPreservesOrder(t *testing.T) {
	bus := model.NewBus()
	sub := bus.Subscribe(8)
	defer sub.Close()

	for i := int64(1); i <= 5; i++ {
		bus.Publish(model.Update{Field: model.FieldHRVTarget, Value: model.Int(i)})
	}

	for i := int64(1); i <= 5; i++ {
		u := <-sub.C
		assert.Equal(t, i, u.Value.Int())
	}
}

func TestPublishDropsWhenMailboxFull(t *testing.T) {
	bus := model.NewBus()
	sub := bus.Subscribe(1)
	defer sub.Close()

	bus.Publish(model.Update{Field: model.FieldStatus, Value: model.String("first")})
	bus.Publish(model.Update{Field: model.FieldStatus, Value: model.String("second")})
	bus.Publish(model.Update{Field: model.FieldStatus, Value: model.String("third")})

	assert.Equal(t, uint64(2), sub.Dropped())
	u := <-sub.C
	assert.Equal(t, "first", u.Value.Str())
}

func TestPublishAfterCloseIsSafe(t *testing.T) {
	bus := model.NewBus()
	sub := bus.Subscribe(1)

	sub.Close()
	sub.Close() // idempotent

	assert.NotPanics(t, func() {
		bus.Publish(model.Update{Field: model.FieldStatus, Value: model.String("late")})
	})
}

func TestPublishStampsTime(t *testing.T) {
	bus := model.NewBus()
	sub := bus.Subscribe(1)
	defer sub.Close()

	bus.Publish(model.Update{Field: model.FieldStatus, Value: model.String("x")})

	u := <-sub.C
	assert.False(t, u.Time.IsZero())
}
