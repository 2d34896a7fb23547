// Package amqp defines queueing contracts (service, channel, message,
// listener) and an in-process loopback implementation of them.
//
// The loopback Service keeps one buffered queue per name inside the process;
// it does not speak the AMQP wire protocol and connects to no broker. It lets
// queue consumers and producers be wired through the locator and tested
// without a broker.
//
//	svc := amqp.NewMemoryService()
//	ch, _ := svc.CreateChannelFor("jobs")
//	defer ch.Close()
//
//	_ = ch.Send(ctx, amqp.BytesMessage("hello"))
//	msg, _ := ch.Receive(ctx)
package amqp

import (
	"context"
	"errors"
	"io"

	"github.com/kofrasa/service-locator/framework/locator"
)

const (
	// CapabilityService is satisfied by every Service implementation.
	CapabilityService locator.Capability = "amqp.Service"
	// CapabilityMemory marks the in-process loopback Service.
	CapabilityMemory locator.Capability = "amqp.MemoryService"

	// MemoryTypeName is the catalog name of the loopback Service.
	MemoryTypeName = "amqp.MemoryService"
)

var (
	// ErrChannelClosed is returned by operations on a closed channel.
	ErrChannelClosed = errors.New("amqp: channel closed")
	// ErrNoQueue is returned when a channel has no bound queue and none was given.
	ErrNoQueue = errors.New("amqp: no queue bound")
)

// Message is a unit of data carried on a queue.
type Message interface {
	Body() []byte
}

// BytesMessage is a Message holding raw bytes.
type BytesMessage []byte

// Body returns m.
func (m BytesMessage) Body() []byte { return m }

// Listener receives the messages of the queue bound to a channel.
type Listener func(msg Message)

// Channel sends and receives messages. A channel may be bound to a queue,
// used by Send, Receive and the message listener.
type Channel interface {
	io.Closer

	// Queue returns the bound queue name.
	Queue() string
	// SetQueue binds the channel to queue. A running listener moves to the
	// new queue.
	SetQueue(queue string)

	// Send publishes msg on the bound queue.
	Send(ctx context.Context, msg Message) error
	// SendTo publishes msg on queue.
	SendTo(ctx context.Context, queue string, msg Message) error

	// Receive waits for the next message of the bound queue.
	Receive(ctx context.Context) (Message, error)
	// ReceiveFrom waits for the next message of queue.
	ReceiveFrom(ctx context.Context, queue string) (Message, error)

	// SetMessageListener installs l as the consumer of the bound queue,
	// replacing the previous listener once its callback in progress returns.
	// A nil listener stops consumption. It must not be called from a listener.
	SetMessageListener(l Listener)
	// MessageListener returns the installed listener.
	MessageListener() Listener
}

// Service hands out channels.
type Service interface {
	CreateChannel() (Channel, error)
	CreateChannelFor(queue string) (Channel, error)
}

// Types returns the catalog descriptor of the loopback Service.
func Types() []locator.Type {
	return []locator.Type{
		{
			Name:         MemoryTypeName,
			New:          func() (any, error) { return NewMemoryService(), nil },
			Capabilities: []locator.Capability{CapabilityMemory},
		},
	}
}
