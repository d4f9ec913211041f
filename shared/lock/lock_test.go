package lock_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeep/shared/lock"
)

func TestKeyed_SerializesSameKey(t *testing.T) {
	keyed := lock.NewKeyed()

	counter := 0

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			keyed.Lock("room-102")
			defer keyed.Unlock("room-102")

			counter++
		}()
	}

	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestKeyed_IndependentKeys(t *testing.T) {
	keyed := lock.NewKeyed()

	keyed.Lock("room-101")

	done := make(chan struct{})

	go func() {
		keyed.Lock("room-102")
		defer keyed.Unlock("room-102")

		close(done)
	}()

	<-done

	keyed.Unlock("room-101")
}

func TestKeyed_UnlockUnknownKeyIsNoop(t *testing.T) {
	keyed := lock.NewKeyed()

	assert.NotPanics(t, func() {
		keyed.Unlock("never-locked")
	})
}
