package realtime

import (
	"context"

	"domainhub/sources/tracing"
)

// Relay feeds events published on the redis channel, by this or any other
// instance, into the local hub.
type Relay struct {
	hub    *Hub
	log    *tracing.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRelay(hub *Hub, log *tracing.Logger) *Relay {
	return &Relay{hub: hub, log: log}
}

func (x *Relay) Start() {
	if x.hub.redis == nil {
		x.log.I("Redis disabled, events are delivered to local clients only")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	x.cancel = cancel
	x.done = make(chan struct{})

	sub := x.hub.redis.Subscribe(ctx, x.hub.channel)
	x.log.I("Event relay subscribed", "channel", x.hub.channel)

	go func() {
		defer close(x.done)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				x.hub.broadcast([]byte(msg.Payload))
			}
		}
	}()
}

func (x *Relay) Stop() {
	if x.cancel == nil {
		return
	}
	x.cancel()
	<-x.done
	x.log.I("Event relay stopped")
}
