// Package amqp implements the optional "kernel reinjector" consumer from
// SPEC_FULL.md §4.8: an in-process broker.Client whose notices are
// republished onto a RabbitMQ exchange, so an external process can observe
// route changes without speaking the HTTP transport. Grounded on the
// teacher's amqp.Producer/Publisher/Dispatcher trio, trimmed to the
// publish-only path — this module is a source of notices for the
// exchange, never a consumer of RPC replies.
package amqp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	driver "github.com/rabbitmq/amqp091-go"

	"go.bryk.io/routebroker/broker"
	"go.bryk.io/routebroker/errors"
	"go.bryk.io/routebroker/log"
)

// producer builds outgoing messages with consistent properties, grounded
// on the teacher's amqp.Producer.
type producer struct {
	contentType string
	appID       string
}

func (p *producer) message(body []byte) driver.Publishing {
	return driver.Publishing{
		AppId:       p.appID,
		ContentType: p.contentType,
		Body:        body,
		MessageId:   uuid.New().String(),
		Timestamp:   time.Now().UTC(),
	}
}

// noticeEnvelope is the wire shape of a mirrored notice, matching the
// HTTP transport's JSON body for consistency across both adapters.
type noticeEnvelope struct {
	Kind    string `json:"kind"`
	Topic   string `json:"topic"`
	Payload []byte `json:"payload,omitempty"`
}

// Mirror drains a dedicated broker client and republishes every notice it
// receives onto a fanout exchange.
type Mirror struct {
	b        *broker.Broker
	client   *broker.Client
	conn     *driver.Connection
	ch       *driver.Channel
	exchange string
	producer *producer
	log      log.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// clientName is the fixed name the mirror registers with the broker.
// A single Mirror instance per Broker is expected; a second NewMirror
// call against the same broker fails with broker.ErrClientExists.
const clientName = "amqp-mirror"

// NewMirror connects to the broker at url, declares exchange as a durable
// fanout exchange, registers a broker client, and starts the mirroring
// loop in the background. Call Close to stop it and release resources.
func NewMirror(b *broker.Broker, url, exchange string, ll log.Logger) (*Mirror, error) {
	if ll == nil {
		ll = log.Discard()
	}
	conn, err := driver.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial amqp broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open amqp channel")
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errors.Wrap(err, "declare amqp exchange")
	}

	client, err := b.CreateClient(clientName)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errors.Wrap(err, "register mirror client")
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Mirror{
		b:        b,
		client:   client,
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		producer: &producer{contentType: "application/json", appID: "routebroker"},
		log:      ll,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go m.loop(ctx)
	return m, nil
}

// loop repeatedly drains the mirror's client and republishes each notice,
// exiting once ctx is cancelled or the broker client is deleted out from
// under it.
func (m *Mirror) loop(ctx context.Context) {
	defer close(m.done)
	for {
		notice, err := m.b.GetNext(ctx, m.client)
		if err != nil {
			if errors.Is(err, broker.ErrClientClosed) {
				return
			}
			m.log.WithField("error", err.Error()).Warning("mirror dispatch error")
			continue
		}
		if ctx.Err() != nil {
			return
		}
		if notice == nil {
			continue
		}
		if err := m.publish(notice); err != nil {
			m.log.WithField("error", err.Error()).Warning("mirror publish failed")
		}
	}
}

func (m *Mirror) publish(n *broker.Notice) error {
	body, err := json.Marshal(noticeEnvelope{Kind: n.Kind.String(), Topic: n.Topic, Payload: n.Payload})
	if err != nil {
		return errors.Wrap(err, "encode notice")
	}
	msg := m.producer.message(body)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.ch.PublishWithContext(ctx, m.exchange, "", false, false, msg)
}

// Close stops the mirroring loop, deletes the broker client it owns, and
// closes the AMQP channel and connection.
func (m *Mirror) Close() error {
	m.cancel()
	<-m.done
	if err := m.b.DeleteClient(clientName); err != nil && !errors.Is(err, broker.ErrUnknownClient) {
		m.log.WithField("error", err.Error()).Warning("delete mirror client")
	}
	if err := m.ch.Close(); err != nil {
		m.log.WithField("error", err.Error()).Warning("close amqp channel")
	}
	return m.conn.Close()
}
