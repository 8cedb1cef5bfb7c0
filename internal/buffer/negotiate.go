// SPDX-License-Identifier: MIT
package buffer

import (
	"errors"
	"fmt"

	applog "vocaltract/internal/log"
)

const (
	// MinCapacity is the floor of the negotiation ladder.
	MinCapacity = 256

	// MaxCapacity is the largest ring DefaultAllocator will hand out.
	MaxCapacity = 1 << 20
)

// candidateSizes are tried in order after the requested size.
var candidateSizes = []int{65536, 32768, 16384, 8192, 4096, 2048, 1024, 512, 256}

// ErrAllocation is returned by allocators that cannot satisfy a size.
var ErrAllocation = errors.New("buffer: allocation failed")

// Allocator returns storage for size samples or an error.
type Allocator func(size int) ([]float32, error)

// DefaultAllocator allocates with make, rejecting non-positive sizes and
// sizes above MaxCapacity and converting allocation panics into errors.
func DefaultAllocator(size int) (data []float32, err error) {
	if size <= 0 || size > MaxCapacity {
		return nil, fmt.Errorf("%w: size %d outside (0, %d]", ErrAllocation, size, MaxCapacity)
	}
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("%w: size %d: %v", ErrAllocation, size, r)
		}
	}()
	return make([]float32, size), nil
}

// NegotiateCapacity tries the requested size, then every candidate size
// below it, and returns the first allocation that succeeds. A nil alloc
// means DefaultAllocator. If the allocator refuses even MinCapacity, a
// MinCapacity ring is made directly.
func NegotiateCapacity(requested int, alloc Allocator) (int, []float32) {
	if alloc == nil {
		alloc = DefaultAllocator
	}

	for _, size := range ladder(requested) {
		data, err := alloc(size)
		if err == nil && len(data) != size {
			err = fmt.Errorf("%w: got %d samples", ErrAllocation, len(data))
		}
		if err == nil {
			if size != requested {
				applog.Warnf("buffer: requested capacity %d unavailable, using %d", requested, size)
			}
			return size, data
		}
		applog.Warnf("buffer: capacity %d unavailable: %v", size, err)
	}

	applog.Warnf("buffer: allocator exhausted, forcing capacity %d", MinCapacity)
	return MinCapacity, make([]float32, MinCapacity)
}

func ladder(requested int) []int {
	sizes := make([]int, 0, len(candidateSizes)+2)
	if requested > 0 {
		sizes = append(sizes, requested)
	}
	for _, s := range candidateSizes {
		if s < requested {
			sizes = append(sizes, s)
		}
	}
	if len(sizes) == 0 || sizes[len(sizes)-1] != MinCapacity {
		sizes = append(sizes, MinCapacity)
	}
	return sizes
}
