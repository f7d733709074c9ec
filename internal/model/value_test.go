package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/nording/hrvctl/internal/model"
)

func TestReduceSeriesToLatest(t *testing.T) {
	v := model.Series([]model.Point{{X: 0, Y: 800}, {X: 1, Y: 820}})

	r := v.Reduce()
	assert.Equal(t, model.KindFloat, r.Kind())
	assert.InDelta(t, 820.0, r.Float(), 1e-9)
}

func TestReduceStringsToLatest(t *testing.T) {
	v := model.Strings([]string{"a", "b"})

	r := v.Reduce()
	assert.Equal(t, "b", r.Str())
}

func TestReduceEmptyArrays(t *testing.T) {
	assert.InDelta(t, 0.0, model.Series(nil).Reduce().Float(), 1e-9)
	assert.Equal(t, "", model.Strings(nil).Reduce().Str())
}

func TestReduceScalarUnchanged(t *testing.T) {
	assert.Equal(t, int64(7), model.Int(7).Reduce().Int())
	assert.Equal(t, "status", model.String("status").Reduce().Str())
}

func TestScalarTypes(t *testing.T) {
	assert.Equal(t, int64(3), model.Int(3).Scalar())
	assert.Equal(t, 2.5, model.Float(2.5).Scalar())
	assert.Equal(t, "s", model.String("s").Scalar())
	assert.Equal(t, 9.0, model.Series([]model.Point{{X: 0, Y: 9}}).Scalar())
}

func TestText(t *testing.T) {
	assert.Equal(t, "42", model.Int(42).Text())
	assert.Equal(t, "2.5", model.Float(2.5).Text())
	assert.Equal(t, "note", model.String("note").Text())
	assert.Equal(t, "820", model.Series([]model.Point{{X: 1, Y: 820}}).Text())
}

func TestBoolEncodesAsInt(t *testing.T) {
	assert.Equal(t, int64(1), model.Bool(true).Int())
	assert.Equal(t, int64(0), model.Bool(false).Int())
}

func TestConstructorsCopyInput(t *testing.T) {
	pts := []model.Point{{X: 0, Y: 800}}
	v := model.Series(pts)
	pts[0].Y = 1

	assert.InDelta(t, 800.0, v.Points()[0].Y, 1e-9)
}
