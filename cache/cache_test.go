package cache

import (
	"errors"
	"sync"
	"testing"

	"github.com/matryer/is"
)

func TestGetLoadsOnce(t *testing.T) {
	is := is.New(t)
	c := New()
	calls := 0
	load := func() (float64, error) {
		calls++
		return 4.5, nil
	}
	v, err := c.Get(17, load)
	is.NoErr(err)
	is.Equal(v, 4.5)
	v, err = c.Get(17, load)
	is.NoErr(err)
	is.Equal(v, 4.5)
	is.Equal(calls, 1)
	hits, misses := c.Stats()
	is.Equal(hits, uint64(1))
	is.Equal(misses, uint64(1))
}

func TestErrorsAreNotCached(t *testing.T) {
	is := is.New(t)
	c := New()
	boom := errors.New("boom")
	_, err := c.Get(1, func() (float64, error) { return 0, boom })
	is.True(errors.Is(err, boom))
	is.Equal(c.Len(), 0)
	v, err := c.Get(1, func() (float64, error) { return 2, nil })
	is.NoErr(err)
	is.Equal(v, 2.0)
	c.Clear()
	is.Equal(c.Len(), 0)
}

func TestConcurrentGet(t *testing.T) {
	is := is.New(t)
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := uint64(i % 4)
			v, err := c.Get(key, func() (float64, error) { return float64(key) * 2, nil })
			if err != nil || v != float64(key)*2 {
				t.Errorf("key %d: got %v, %v", key, v, err)
			}
		}(i)
	}
	wg.Wait()
	is.Equal(c.Len(), 4)
}

func TestLimit(t *testing.T) {
	is := is.New(t)
	c := NewWithLimit(3)
	for i := uint64(0); i < 3; i++ {
		_, err := c.Get(i, func() (float64, error) { return 1, nil })
		is.NoErr(err)
	}
	is.Equal(c.Len(), 3)
	_, err := c.Get(99, func() (float64, error) { return 1, nil })
	is.NoErr(err)
	is.Equal(c.Len(), 1)
}

func TestLimitForMemory(t *testing.T) {
	is := is.New(t)
	is.Equal(limitForMemory(0, DefaultMemoryFraction), 1<<16)
	is.Equal(limitForMemory(64<<30, DefaultMemoryFraction), (1<<30)/entrySize)
}
