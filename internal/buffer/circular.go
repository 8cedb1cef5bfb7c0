// SPDX-License-Identifier: MIT
/*
Package buffer decouples the capture callback from frame-based analysis.

- Circular: fixed-capacity float32 ring with drop-oldest overwrite
- NegotiateCapacity: descending size ladder for buffer allocation
- Processor: frame and windowed-frame producers on top of Circular

Circular is not synchronized. One writer and one reader may use it only
when the caller serializes them, e.g. with a mutex around Write and the
read side.
*/
package buffer

// Circular is a ring of float32 samples. It has two states: NOT-FULL, where
// the readable span is the forward distance from the read cursor to the
// write cursor, and FULL, where the whole capacity is readable. Writing into
// a full ring drops the oldest sample and counts it as an overflow.
type Circular struct {
	data      []float32
	read      int
	write     int
	full      bool
	written   int // samples held since Clear, saturating at capacity
	overflows uint64
}

// NewCircular allocates a ring, negotiating down from capacity with the
// default allocator if needed. It never fails.
func NewCircular(capacity int) *Circular {
	_, data := NegotiateCapacity(capacity, nil)
	return &Circular{data: data}
}

// Capacity returns the number of samples the ring can hold.
func (c *Circular) Capacity() int {
	return len(c.data)
}

// Full reports whether the write cursor has caught up with the read cursor.
func (c *Circular) Full() bool {
	return c.full
}

// Overflows returns the number of samples dropped since construction or
// the last Clear.
func (c *Circular) Overflows() uint64 {
	return c.overflows
}

// Written returns how many samples the ring holds, read or unread, since
// construction or the last Clear. It saturates at Capacity.
func (c *Circular) Written() int {
	return c.written
}

// Write appends samples one at a time.
func (c *Circular) Write(samples []float32) {
	n := len(c.data)
	for _, s := range samples {
		if c.full {
			c.read = (c.read + 1) % n
			c.overflows++
		}
		c.data[c.write] = s
		c.write = (c.write + 1) % n
		if c.written < n {
			c.written++
		}
		if c.write == c.read {
			c.full = true
		}
	}
}

// Read consumes up to length samples. Positions past the readable span are
// returned as zeros; Read never blocks.
func (c *Circular) Read(length int) []float32 {
	if length <= 0 {
		return []float32{}
	}
	out := make([]float32, length)
	n := len(c.data)
	for i := range out {
		if !c.full && c.read == c.write {
			continue
		}
		out[i] = c.data[c.read]
		c.read = (c.read + 1) % n
		c.full = false
	}
	return out
}

// Peek copies length samples ending offset samples behind the write cursor
// without moving either cursor. Peek(n, 0) returns the n most recently
// written samples.
func (c *Circular) Peek(length, offset int) []float32 {
	if length <= 0 {
		return []float32{}
	}
	out := make([]float32, length)
	c.PeekInto(out, offset)
	return out
}

// PeekInto is Peek writing into dst.
func (c *Circular) PeekInto(dst []float32, offset int) {
	n := len(c.data)
	start := mod(c.write-offset-len(dst), n)
	for i := range dst {
		dst[i] = c.data[(start+i)%n]
	}
}

// Available returns the number of unread samples.
func (c *Circular) Available() int {
	if c.full {
		return len(c.data)
	}
	return mod(c.write-c.read, len(c.data))
}

// Skip advances the read cursor by n samples, limited to Available.
func (c *Circular) Skip(n int) int {
	if avail := c.Available(); n > avail {
		n = avail
	}
	if n <= 0 {
		return 0
	}
	c.read = (c.read + n) % len(c.data)
	c.full = false
	return n
}

// Clear zeroes the storage and resets both cursors, the FULL flag and the
// counters.
func (c *Circular) Clear() {
	clear(c.data)
	c.read = 0
	c.write = 0
	c.full = false
	c.written = 0
	c.overflows = 0
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
