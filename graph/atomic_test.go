package graph

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchAddReturnsPrevious(t *testing.T) {
	var x32 uint32
	assert.Equal(t, uint32(0), fetchAdd32(&x32, 5))
	assert.Equal(t, uint32(5), fetchAdd32(&x32, 3))
	assert.Equal(t, uint32(8), acquire32(&x32))

	var x64 uint64
	assert.Equal(t, uint64(0), fetchAdd64(&x64, 7))
	assert.Equal(t, uint64(7), acquire64(&x64))
}

func TestFetchOrReturnsPrevious(t *testing.T) {
	var w uint64
	assert.Equal(t, uint64(0), fetchOr64(&w, 0b0101))
	assert.Equal(t, uint64(0b0101), fetchOr64(&w, 0b0011))
	assert.Equal(t, uint64(0b0111), acquire64(&w))
	// setting already-set bits is a no-op
	assert.Equal(t, uint64(0b0111), fetchOr64(&w, 0b0100))
}

func TestFetchAddFloat64Concurrent(t *testing.T) {
	const goroutines = 8
	const addsPerGoroutine = 1000

	var bits uint64
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < addsPerGoroutine; j++ {
				fetchAddFloat64(&bits, 0.5)
			}
		}()
	}
	wg.Wait()

	got := math.Float64frombits(bits)
	assert.Equal(t, float64(goroutines*addsPerGoroutine)/2, got)
}

func TestCASFloat32(t *testing.T) {
	var bits uint32
	storeFloat32(&bits, 1.5)
	assert.Equal(t, float32(1.5), loadFloat32(&bits))

	assert.True(t, casFloat32(&bits, 1.5, 0.25))
	assert.Equal(t, float32(0.25), loadFloat32(&bits))
	assert.False(t, casFloat32(&bits, 1.5, 2))
	assert.Equal(t, float32(0.25), loadFloat32(&bits))
}
