package command

// QueueCapacity bounds the multi-producer channel; a full queue means the
// control plane is submitting faster than 60Hz can drain, and Submit backs
// off to the caller rather than blocking the tick loop.
const QueueCapacity = 1024

// Queue is the multi-producer, single-consumer channel commands flow
// through. internal/api holds the producer side; internal/scheduler holds
// the sole consumer.
type Queue struct {
	ch chan Command
}

// New builds an empty Queue.
func New() *Queue {
	return &Queue{ch: make(chan Command, QueueCapacity)}
}

// Submit enqueues cmd, returning false if the queue is full (the caller
// should surface this as a 503/backpressure response, not block).
func (q *Queue) Submit(cmd Command) bool {
	select {
	case q.ch <- cmd:
		return true
	default:
		return false
	}
}

// SubmitAndWait enqueues cmd with a fresh reply channel and blocks for the
// result — the shape every synchronous HTTP handler uses.
func (q *Queue) SubmitAndWait(kind Kind, args map[string]any) Result {
	reply := make(chan Result, 1)
	cmd := Command{Kind: kind, Args: args, Reply: reply}
	if !q.Submit(cmd) {
		return Result{Err: ErrQueueFull}
	}
	return <-reply
}

// Drain removes every command currently buffered, in FIFO order, without
// blocking — called once per tick at the start of step 3.
func (q *Queue) Drain() []Command {
	var out []Command
	for {
		select {
		case cmd := <-q.ch:
			out = append(out, cmd)
		default:
			return out
		}
	}
}

// Len reports the number of commands currently buffered (for
// GetPerf/command_queue_depth telemetry).
func (q *Queue) Len() int { return len(q.ch) }
