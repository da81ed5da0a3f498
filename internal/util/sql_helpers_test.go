package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStringToNullString(t *testing.T) {
	assert.False(t, StringToNullString("").Valid)

	ns := StringToNullString("hello")
	assert.True(t, ns.Valid)
	assert.Equal(t, "hello", ns.String)
}

func TestTimeToNullTime(t *testing.T) {
	assert.False(t, TimeToNullTime(time.Time{}).Valid)

	now := time.Now()
	nt := TimeToNullTime(now)
	assert.True(t, nt.Valid)
	assert.Equal(t, now, nt.Time)
}

func TestIntPtrRoundTrip(t *testing.T) {
	assert.False(t, IntPtrToNullInt64(nil).Valid)
	assert.Nil(t, NullInt64ToIntPtr(IntPtrToNullInt64(nil)))

	v := 42
	n := IntPtrToNullInt64(&v)
	assert.True(t, n.Valid)
	back := NullInt64ToIntPtr(n)
	assert.NotNil(t, back)
	assert.Equal(t, 42, *back)
}

func TestNewULID(t *testing.T) {
	a := NewULID()
	b := NewULID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}
