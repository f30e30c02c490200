package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"saheli-store/internal/cache"
)

func TestSetAndGet(t *testing.T) {
	c := cache.New(time.Second)
	c.Set("k1", "v1")

	value, found := c.Get("k1")
	assert.True(t, found)
	assert.Equal(t, "v1", value)

	_, found = c.Get("k2")
	assert.False(t, found)
}

func TestExpiry(t *testing.T) {
	c := cache.New(40 * time.Millisecond)
	c.Set("k1", "v1")

	_, found := c.Get("k1")
	assert.True(t, found)

	time.Sleep(60 * time.Millisecond)

	_, found = c.Get("k1")
	assert.False(t, found, "una entrada vencida nunca se sirve")
}

func TestInvalidate(t *testing.T) {
	c := cache.New(time.Minute)
	c.Set("k1", "v1")
	c.Set("k2", "v2")
	assert.Equal(t, 2, c.Size())

	c.Invalidate()

	assert.Equal(t, 0, c.Size())
	_, found := c.Get("k1")
	assert.False(t, found)
}

func TestKeysAreIndependent(t *testing.T) {
	c := cache.New(time.Minute)
	c.Set("category=soap", []string{"a"})
	c.Set("category=oil", []string{"b"})

	v1, _ := c.Get("category=soap")
	v2, _ := c.Get("category=oil")
	assert.NotEqual(t, v1, v2)
}

func TestConcurrentAccess(t *testing.T) {
	c := cache.New(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Set("key", "value")
		}()
		go func() {
			defer wg.Done()
			c.Get("key")
			c.Invalidate()
		}()
	}
	wg.Wait()
}
