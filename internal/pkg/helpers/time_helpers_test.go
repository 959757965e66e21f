package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Second, ParseDuration("90s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("not-a-duration", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
}

func TestSameTimePtr(t *testing.T) {
	now := time.Now()
	utc := now.UTC()
	later := now.Add(time.Second)

	assert.True(t, SameTimePtr(nil, nil))
	assert.True(t, SameTimePtr(&now, &now))
	assert.True(t, SameTimePtr(&now, &utc)) // same instant, different location
	assert.False(t, SameTimePtr(&now, &later))
	assert.False(t, SameTimePtr(&now, nil))
	assert.False(t, SameTimePtr(nil, &now))
}
