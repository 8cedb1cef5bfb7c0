// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	applog "vocaltract/internal/log"
)

// HeaderSize is the byte length of the fixed packet header.
const HeaderSize = 4 + 8 + 2

// maxAreas bounds the section count of a packet; LPC orders are far below it.
const maxAreas = 256

// ErrShortPacket is returned when a datagram is smaller than its header claims.
var ErrShortPacket = errors.New("udp: short packet")

// AreaProvider exposes the latest vocal tract area function.
// LatestAreas appends the areas to dst[:0] and returns the result; an empty
// result means no analysis has completed yet.
type AreaProvider interface {
	LatestAreas(dst []float64) []float64
}

// Sender is the datagram sink used by the publisher. *UDPSender implements it.
type Sender interface {
	Send(data []byte) error
}

// UDPPublisher periodically fetches the latest vocal tract areas, packs them
// into a binary packet and sends them using a Sender.
// It runs in a separate goroutine managed by Start and Stop methods.
type UDPPublisher struct {
	sender   Sender
	source   AreaProvider
	interval time.Duration

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex // Protects ticker and doneChan during Start/Stop.

	sequenceNum uint32

	// Reused on every tick.
	areaBuffer   []float64
	f32Buffer    []float32
	packetBuffer *bytes.Buffer
}

// NewUDPPublisher creates and initializes a new UDPPublisher.
// If the provided interval is invalid (<= 0), it defaults to 33ms (~30Hz).
func NewUDPPublisher(interval time.Duration, sender Sender, source AreaProvider) (*UDPPublisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("UDPPublisher: UDP sender cannot be nil")
	}
	if source == nil {
		return nil, fmt.Errorf("UDPPublisher: area provider cannot be nil")
	}

	if interval <= 0 {
		interval = 33 * time.Millisecond
		applog.Warnf("UDPPublisher: Invalid interval provided, defaulting to %s", interval)
	}
	applog.Infof("UDPPublisher: Initializing (Interval: %s)", interval)

	return &UDPPublisher{
		sender:       sender,
		source:       source,
		interval:     interval,
		areaBuffer:   make([]float64, 0, 64),
		f32Buffer:    make([]float32, 0, 64),
		packetBuffer: new(bytes.Buffer),
	}, nil
}

// Start begins the periodic publishing process.
// It is safe to call Start multiple times; subsequent calls are no-ops if already started.
func (p *UDPPublisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		applog.Warnf("UDPPublisher: Start called but already running.")
		return
	}

	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}

	// Local copies keep the goroutine off p.ticker/p.doneChan.
	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		applog.Infof("UDPPublisher: Publisher goroutine started (Interval: %s)", p.interval)
		for {
			select {
			case <-ticker.C:
				p.publish()
			case <-doneChan:
				applog.Infof("UDPPublisher: Publisher goroutine received stop signal.")
				return
			}
		}
	}()
}

// Stop signals the publisher goroutine to terminate and waits for it to exit.
// It is safe to call Stop multiple times; subsequent calls are no-ops.
func (p *UDPPublisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		applog.Debugf("UDPPublisher: Stop called but not running.")
		return nil
	}

	p.stopOnce.Do(func() {
		applog.Infof("UDPPublisher: Initiating stop sequence...")
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	applog.Infof("UDPPublisher: Publisher goroutine finished.")
	return nil
}

/*
UDP Packet Structure (BigEndian)

+-----------------------------------------------------------------------------+
| Field             | Data Type      | Size (Bytes) | Description             |
|-------------------|----------------|--------------|-------------------------|
| Sequence Number   | uint32         | 4            | Monotonically increasing|
| Timestamp         | int64          | 8            | Nanoseconds since epoch |
| Area Count        | uint16         | 2            | Number of floats (N)    |
| Areas             | []float32      | N * 4        | Glottis to lips         |
+-----------------------------------------------------------------------------+
*/

// publish runs on each tick. Nothing is sent until the provider has areas.
func (p *UDPPublisher) publish() {
	p.areaBuffer = p.source.LatestAreas(p.areaBuffer[:0])
	if len(p.areaBuffer) == 0 {
		return
	}

	p.sequenceNum++
	packet, err := p.pack(p.sequenceNum, time.Now().UnixNano(), p.areaBuffer)
	if err != nil {
		applog.Errorf("UDPPublisher: Error packing data into binary buffer: %v", err)
		return
	}

	if err := p.sender.Send(packet); err == nil {
		applog.Debugf("UDPPublisher: Sent packet %d (%d bytes)", p.sequenceNum, len(packet))
	}
}

// pack encodes one packet into the reusable buffer. The returned slice is
// valid until the next call.
func (p *UDPPublisher) pack(seq uint32, timestamp int64, areas []float64) ([]byte, error) {
	if len(areas) > maxAreas {
		areas = areas[:maxAreas]
	}
	p.f32Buffer = p.f32Buffer[:0]
	for _, v := range areas {
		p.f32Buffer = append(p.f32Buffer, float32(v))
	}

	p.packetBuffer.Reset()
	err := binary.Write(p.packetBuffer, binary.BigEndian, seq)
	if err == nil {
		err = binary.Write(p.packetBuffer, binary.BigEndian, timestamp)
	}
	if err == nil {
		err = binary.Write(p.packetBuffer, binary.BigEndian, uint16(len(p.f32Buffer)))
	}
	if err == nil {
		err = binary.Write(p.packetBuffer, binary.BigEndian, p.f32Buffer)
	}
	if err != nil {
		return nil, err
	}
	return p.packetBuffer.Bytes(), nil
}

// Packet is a decoded area packet.
type Packet struct {
	Sequence  uint32
	Timestamp int64
	Areas     []float32
}

// DecodePacket parses a datagram produced by the publisher.
func DecodePacket(b []byte) (Packet, error) {
	if len(b) < HeaderSize {
		return Packet{}, fmt.Errorf("%w: %d bytes", ErrShortPacket, len(b))
	}
	pkt := Packet{
		Sequence:  binary.BigEndian.Uint32(b[0:4]),
		Timestamp: int64(binary.BigEndian.Uint64(b[4:12])),
	}
	count := int(binary.BigEndian.Uint16(b[12:14]))
	if len(b) < HeaderSize+count*4 {
		return Packet{}, fmt.Errorf("%w: %d areas need %d bytes, have %d", ErrShortPacket, count, HeaderSize+count*4, len(b))
	}
	pkt.Areas = make([]float32, count)
	if err := binary.Read(bytes.NewReader(b[HeaderSize:]), binary.BigEndian, pkt.Areas); err != nil {
		return Packet{}, err
	}
	return pkt, nil
}

// Close implements the io.Closer interface. It gracefully stops the publisher goroutine.
func (p *UDPPublisher) Close() error {
	applog.Debugf("UDPPublisher: Close called, stopping publisher...")
	return p.Stop()
}

var _ interface{ Close() error } = (*UDPPublisher)(nil)
