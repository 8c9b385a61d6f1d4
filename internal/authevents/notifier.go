// Package authevents fans session state changes out to the session gates that
// observe them. Delivery inside one process goes through a watermill GoChannel;
// an optional redis channel relays events between instances.
package authevents

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"aquatech-web/internal/entity"
	"aquatech-web/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Label string

const (
	SignedIn       Label = "SIGNED_IN"
	SignedOut      Label = "SIGNED_OUT"
	TokenRefreshed Label = "TOKEN_REFRESHED"
)

const (
	topicPrefix  = "auth_state."
	relayChannel = "auth_events"
)

type Event struct {
	Label      Label               `json:"label"`
	SessionID  string              `json:"session_id"`
	User       *entity.SessionUser `json:"user,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}

type Listener func(Event)

// Subscription releases a listener registration. Unsubscribe is idempotent and
// waits for an in-flight listener call to return, so it must not be called from
// inside the listener.
type Subscription interface {
	Unsubscribe()
}

type relayEnvelope struct {
	Origin string `json:"origin"`
	Event  Event  `json:"event"`
}

type Notifier struct {
	pubSub     *gochannel.GoChannel
	rdb        *redis.Client
	instanceID string
	logger     logger.ILogger
}

// NewNotifier builds a notifier. rdb may be nil, in which case events stay in
// this process.
func NewNotifier(rdb *redis.Client, log logger.ILogger) *Notifier {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			// Publish returns only after every listener handled the event, which
			// keeps events of one session in order.
			BlockPublishUntilSubscriberAck: true,
		},
		watermill.NewStdLogger(false, false),
	)

	return &Notifier{
		pubSub:     pubSub,
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func topic(sessionID string) string {
	return topicPrefix + sessionID
}

// Publish delivers ev to the local listeners of its session and relays it to
// the other instances.
func (n *Notifier) Publish(ctx context.Context, ev Event) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}

	if err := n.publishLocal(ev); err != nil {
		return err
	}

	if n.rdb != nil {
		data, err := json.Marshal(relayEnvelope{Origin: n.instanceID, Event: ev})
		if err != nil {
			return fmt.Errorf("failed to marshal relay envelope: %w", err)
		}
		if err := n.rdb.Publish(ctx, relayChannel, data).Err(); err != nil {
			n.logger.Warn("AuthEvents", "Relay publish failed", map[string]interface{}{
				"error":      err.Error(),
				"session_id": ev.SessionID,
			})
		}
	}
	return nil
}

func (n *Notifier) publishLocal(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal auth event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := n.pubSub.Publish(topic(ev.SessionID), msg); err != nil {
		return fmt.Errorf("failed to publish auth event: %w", err)
	}
	return nil
}

// Subscribe registers listener for the events of one browser session.
func (n *Notifier) Subscribe(sessionID string, listener Listener) (Subscription, error) {
	ctx, cancel := context.WithCancel(context.Background())

	messages, err := n.pubSub.Subscribe(ctx, topic(sessionID))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to auth events: %w", err)
	}

	sub := &subscription{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		for msg := range messages {
			var ev Event
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				n.logger.Error("AuthEvents", "Dropping malformed auth event", map[string]interface{}{
					"error":      err.Error(),
					"session_id": sessionID,
				})
				msg.Ack()
				continue
			}
			listener(ev)
			msg.Ack()
		}
	}()

	return sub, nil
}

// Run relays events published by other instances until ctx is done.
func (n *Notifier) Run(ctx context.Context) {
	if n.rdb == nil {
		return
	}

	pubsub := n.rdb.Subscribe(ctx, relayChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env relayEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				n.logger.Warn("AuthEvents", "Relay message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if env.Origin == n.instanceID {
				continue
			}
			if err := n.publishLocal(env.Event); err != nil {
				n.logger.Error("AuthEvents", "Relay delivery failed", map[string]interface{}{
					"error":      err.Error(),
					"session_id": env.Event.SessionID,
				})
			}
		}
	}
}

func (n *Notifier) Close() error {
	return n.pubSub.Close()
}

type subscription struct {
	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}
