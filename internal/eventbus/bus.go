// Package eventbus implements the ordered append-only event log with frame
// stamps (component K). Grounded on
// _examples/iamvalenciia-kick-game-stream/fight-club-go/internal/game/event_log.go's
// rate-limited circular buffer, generalized from a fixed EventType enum to
// the free-form {name,data,frame,source_entity} shape, with
// golang.org/x/time/rate reused unchanged for the emission limiter. The
// buffer is guarded by a mutex and Emit writes synchronously; there is no
// async writer goroutine, and one global limiter covers every source.
package eventbus

import (
	"sync"

	"golang.org/x/time/rate"
)

// BufferSize is the circular buffer capacity, sized down from
// fight-club-go's EventBufferSize since AXIOM's events are JSON-heavier than
// the brawler's fixed structs.
const BufferSize = 4096

// Event is one bus entry. Frame is monotone non-decreasing across the whole
// buffer.
type Event struct {
	Sequence     uint64
	Name         string
	Data         map[string]any
	Frame        uint64
	SourceEntity uint64
	HasSource    bool
}

// Bus is the process-wide ordered event log.
type Bus struct {
	mu       sync.Mutex
	buf      [BufferSize]Event
	writeIdx uint64
	dropped  uint64
	sequence uint64
	frame    uint64

	globalLimiter *rate.Limiter
	perSource     sync.Map // ecsworld.NetworkId -> *rate.Limiter
}

// New builds a Bus with one global emission limiter (2000 events/s, burst
// 4000). The perSource map stays empty; Emit never consults it.
func New() *Bus {
	return &Bus{
		globalLimiter: rate.NewLimiter(rate.Limit(2000), 4000),
	}
}

// Frame returns the bus's current frame stamp.
func (b *Bus) Frame() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frame
}

// Advance is tick step 10's "event-bus frame++".
func (b *Bus) Advance() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frame++
}

// Emit appends an event, stamping it with the bus's current frame if the
// caller left Frame at zero. It never blocks: an emission over the global
// rate limit is discarded and counted in Dropped, and once the buffer is
// full each new entry overwrites the oldest.
func (b *Bus) Emit(e Event) {
	if !b.globalLimiter.Allow() {
		b.mu.Lock()
		b.dropped++
		b.mu.Unlock()
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if e.Frame == 0 {
		e.Frame = b.frame
	}
	b.sequence++
	e.Sequence = b.sequence
	b.buf[b.writeIdx%BufferSize] = e
	b.writeIdx++
}

// Since returns every event with Sequence > afterSeq, in ascending order,
// for GetEvents / the /events/stream websocket tail.
func (b *Bus) Since(afterSeq uint64) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Event
	count := b.writeIdx
	start := uint64(0)
	if count > BufferSize {
		start = count - BufferSize
	}
	for i := start; i < count; i++ {
		e := b.buf[i%BufferSize]
		if e.Sequence > afterSeq {
			out = append(out, e)
		}
	}
	return out
}

// Dropped reports the lifetime count of rate-limited emissions.
func (b *Bus) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Latest returns the most recent n events.
func (b *Bus) Latest(n int) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	count := b.writeIdx
	start := uint64(0)
	if count > BufferSize {
		start = count - BufferSize
	}
	total := int(count - start)
	if n > total {
		n = total
	}
	out := make([]Event, 0, n)
	for i := count - uint64(n); i < count; i++ {
		out = append(out, b.buf[i%BufferSize])
	}
	return out
}
