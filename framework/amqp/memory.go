package amqp

import (
	"context"
	"sync"
)

const defaultCapacity = 64

// MemoryOption configures a MemoryService.
type MemoryOption func(*MemoryService)

// WithCapacity sets how many messages a queue buffers before Send blocks.
func WithCapacity(n int) MemoryOption {
	return func(s *MemoryService) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// MemoryService is an in-process Service. Channels created from the same
// MemoryService share its queues.
type MemoryService struct {
	mu       sync.Mutex
	queues   map[string]chan Message
	capacity int
}

// NewMemoryService creates a loopback Service with no queues.
func NewMemoryService(opts ...MemoryOption) *MemoryService {
	s := &MemoryService{
		queues:   make(map[string]chan Message),
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateChannel returns a channel with no bound queue.
func (s *MemoryService) CreateChannel() (Channel, error) {
	return s.CreateChannelFor("")
}

// CreateChannelFor returns a channel bound to queue.
func (s *MemoryService) CreateChannelFor(queue string) (Channel, error) {
	return &memoryChannel{
		service: s,
		queue:   queue,
		done:    make(chan struct{}),
	}, nil
}

// Depth returns the number of messages waiting on queue.
func (s *MemoryService) Depth(queue string) int {
	return len(s.queueOf(queue))
}

// queueOf returns the queue named name, creating it on first use.
func (s *MemoryService) queueOf(name string) chan Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[name]
	if !ok {
		q = make(chan Message, s.capacity)
		s.queues[name] = q
	}
	return q
}

// ── memoryChannel ─────────────────────────────────────────────────────────────

type memoryChannel struct {
	service *MemoryService

	mu       sync.Mutex
	queue    string
	listener Listener
	closed   bool

	// closed on Close; unblocks pending receives
	done chan struct{}

	// the running listener goroutine, nil when none
	run *listenerRun
}

type listenerRun struct {
	stop chan struct{} // closed to ask the goroutine to return
	done chan struct{} // closed once it has returned
}

func (c *memoryChannel) Queue() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue
}

func (c *memoryChannel) SetQueue(queue string) {
	c.mu.Lock()
	c.queue = queue
	old := c.restartLocked()
	c.mu.Unlock()
	halt(old)
}

func (c *memoryChannel) Send(ctx context.Context, msg Message) error {
	return c.SendTo(ctx, c.Queue(), msg)
}

func (c *memoryChannel) SendTo(ctx context.Context, queue string, msg Message) error {
	if err := c.usable(queue); err != nil {
		return err
	}
	select {
	case c.service.queueOf(queue) <- msg:
		return nil
	case <-c.done:
		return ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *memoryChannel) Receive(ctx context.Context) (Message, error) {
	return c.ReceiveFrom(ctx, c.Queue())
}

func (c *memoryChannel) ReceiveFrom(ctx context.Context, queue string) (Message, error) {
	if err := c.usable(queue); err != nil {
		return nil, err
	}
	select {
	case msg := <-c.service.queueOf(queue):
		return msg, nil
	case <-c.done:
		return nil, ErrChannelClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *memoryChannel) SetMessageListener(l Listener) {
	c.mu.Lock()
	c.listener = l
	old := c.restartLocked()
	c.mu.Unlock()
	halt(old)
}

func (c *memoryChannel) MessageListener() Listener {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listener
}

// Close stops the listener, waits for it to return and fails pending and
// future operations with ErrChannelClosed. A listener must not close its own
// channel.
func (c *memoryChannel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	old := c.restartLocked()
	c.mu.Unlock()

	halt(old)
	return nil
}

func (c *memoryChannel) usable(queue string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrChannelClosed
	}
	if queue == "" {
		return ErrNoQueue
	}
	return nil
}

// restartLocked replaces the listener goroutine to match the current queue and
// listener. It returns the previous goroutine, if any, which the caller halts
// after releasing c.mu.
func (c *memoryChannel) restartLocked() *listenerRun {
	old := c.run
	c.run = nil
	if c.closed || c.listener == nil || c.queue == "" {
		return old
	}

	run := &listenerRun{stop: make(chan struct{}), done: make(chan struct{})}
	c.run = run
	go listen(c.service.queueOf(c.queue), c.listener, run)
	return old
}

func listen(q <-chan Message, l Listener, run *listenerRun) {
	defer close(run.done)
	for {
		select {
		case <-run.stop:
			return
		case msg := <-q:
			l(msg)
		}
	}
}

// halt stops run and waits until its goroutine has returned.
func halt(run *listenerRun) {
	if run == nil {
		return
	}
	close(run.stop)
	<-run.done
}
