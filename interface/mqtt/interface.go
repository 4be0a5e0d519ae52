package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/adambalon/vcm-overlay/overlay"
	"github.com/adambalon/vcm-overlay/state"
	"github.com/shimmeringbee/logwrap"
)

type Publisher func(ctx context.Context, topic string, payload []byte) error

type mqttError string

func (m mqttError) Error() string {
	return string(m)
}

const UnknownTopic = mqttError("unknown topic")

type DisplaySnapshotter interface {
	Snapshot() overlay.CurrentDisplay
}

type Interface struct {
	Publisher Publisher
	stop      chan bool

	Display         DisplaySnapshotter
	EventSubscriber state.EventSubscriber
	Reloader        func() error

	Logger logwrap.Logger

	PublishStateOnConnect bool
}

func EmptyPublisher(ctx context.Context, topic string, payload []byte) error {
	return nil
}

// IncomingMessage routes a message received from the broker. Only the
// "overlay/reload" topic accepts input; everything else published under the
// prefix is output from this process.
func (i *Interface) IncomingMessage(ctx context.Context, topic string, payload []byte) error {
	topicParts := strings.Split(topic, "/")

	if len(topicParts) == 2 && topicParts[0] == "overlay" {
		switch topicParts[1] {
		case "reload":
			if err := i.Reloader(); err != nil {
				return fmt.Errorf("unable to reload parameter descriptions: %w", err)
			}

			return nil
		}
	}

	return fmt.Errorf("%w: %s", UnknownTopic, topic)
}

func (i *Interface) Connected(ctx context.Context, publisher Publisher) error {
	i.Publisher = publisher

	if i.PublishStateOnConnect {
		i.Logger.LogInfo(ctx, "MQTT connected, publishing current overlay state.")
		go i.publishCurrent()
	}

	return nil
}

func (i *Interface) Disconnected() {
	i.Publisher = EmptyPublisher
}

func (i *Interface) Start() {
	i.stop = make(chan bool, 1)

	ch := make(chan any, 100)
	i.EventSubscriber.Subscribe(ch)

	go i.handleEvents(ch)
}

func (i *Interface) Stop() {
	if i.stop != nil {
		i.stop <- true
	}
}

func (i *Interface) handleEvents(ch chan any) {
	for {
		select {
		case event := <-ch:
			i.serviceUpdateOnEvent(event)
		case <-i.stop:
			return
		}
	}
}

const MaximumServiceUpdateTime = 1 * time.Second

func (i *Interface) serviceUpdateOnEvent(e any) {
	ctx, cancel := context.WithTimeout(context.Background(), MaximumServiceUpdateTime)
	defer cancel()

	switch event := e.(type) {
	case overlay.DisplayUpdatedEvent:
		i.publishDisplay(ctx, event.Current)
	case overlay.AttachedEvent:
		i.publishSimple(ctx, "overlay/state", []byte(`attached`))
	case overlay.DetachedEvent:
		i.publishSimple(ctx, "overlay/state", []byte(`detached`))
	case overlay.ParameterMatchedEvent:
		i.publishParameter(ctx, event)
	}
}

func (i *Interface) publishCurrent() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	i.publishDisplay(ctx, i.Display.Snapshot())
}

func (i *Interface) publishDisplay(ctx context.Context, current overlay.CurrentDisplay) {
	payload, err := json.Marshal(current)
	if err != nil {
		i.Logger.LogError(ctx, "Failed to marshal display state.", logwrap.Err(err))
		return
	}

	i.publishSimple(ctx, "overlay/display", payload)
}

func (i *Interface) publishParameter(ctx context.Context, event overlay.ParameterMatchedEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		i.Logger.LogError(ctx, "Failed to marshal matched parameter.", logwrap.Err(err))
		return
	}

	i.publishSimple(ctx, "overlay/parameter", payload)
}

func (i *Interface) publishSimple(ctx context.Context, topic string, payload []byte) {
	if err := i.Publisher(ctx, topic, payload); err != nil {
		i.Logger.LogError(ctx, "Failed to publish data to mqtt.", logwrap.Datum("topic", topic), logwrap.Err(err))
	}
}
