package baobab

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpan(t *testing.T) {
	s := Span{3, 7}
	assert.Equal(t, uint64(3), s.From())
	assert.Equal(t, uint64(7), s.To())
	assert.Equal(t, uint64(4), s.Len())
	assert.False(t, s.IsNull())
	assert.True(t, Span{}.IsNull())
	assert.Equal(t, Span{1, 9}, s.Extend(Span{1, 9}))
	assert.Equal(t, Span{3, 9}, s.Extend(Span{5, 9}))
	assert.Equal(t, "(3…7)", s.String())
}

func TestBudget(t *testing.T) {
	b := NewBudget(2)
	assert.True(t, b.Step())
	assert.True(t, b.Step())
	assert.False(t, b.Step())
	assert.Equal(t, uint64(3), b.Steps())
	assert.Equal(t, uint64(2), b.Limit())
}

func TestNilBudget(t *testing.T) {
	var b *Budget
	for i := 0; i < 1000; i++ {
		assert.True(t, b.Step())
	}
	assert.Equal(t, uint64(0), b.Steps())
}

func TestTimeoutError(t *testing.T) {
	err := error(&TimeoutError{Op: "fa.Determinize", Limit: 64})
	assert.Contains(t, err.Error(), "fa.Determinize")
	var timeout *TimeoutError
	assert.True(t, errors.As(err, &timeout))
}
