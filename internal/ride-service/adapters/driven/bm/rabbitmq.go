package bm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/orlantquijada/wingz/internal/config"
	"github.com/orlantquijada/wingz/internal/mylogger"
	"github.com/orlantquijada/wingz/internal/ride-service/core/ports"

	messagebroker "github.com/orlantquijada/wingz/internal/ride-service/core/domain/message_broker_dto"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchange       = "ride_topic"
	statusBinding  = "ride.status.*"
	reconnInterval = 10
)

var ErrConnClosed = errors.New("connection is closed")

type RabbitMQ struct {
	ctx          context.Context
	cfg          config.RabbitMqconfig
	mylog        mylogger.Logger
	conn         *amqp.Connection
	ch           *amqp.Channel
	reconnecting bool
	mu           *sync.Mutex
}

// New dials RabbitMQ and declares the ride topic exchange.
func New(ctx context.Context, rabbitmqCfg config.RabbitMqconfig, mylog mylogger.Logger) (*RabbitMQ, error) {
	r := &RabbitMQ{
		ctx:          ctx,
		cfg:          rabbitmqCfg,
		mylog:        mylog,
		mu:           &sync.Mutex{},
		reconnecting: false,
	}
	if err := r.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %v", err)
	}
	mylog.Info("connected to rabbitmq", "host", rabbitmqCfg.Host, "exchange", exchange)
	return r, nil
}

// RoutingKey returns the topic key a status message is published under.
func RoutingKey(status string) string {
	return fmt.Sprintf(ports.RideStatusRoutingKey, status)
}

func encodeStatus(message messagebroker.RideStatus) (amqp.Publishing, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    message.Timestamp,
		Body:         body,
	}, nil
}

func (r *RabbitMQ) PushMessageToStatus(ctx context.Context, message messagebroker.RideStatus) error {
	mylog := r.mylog.Action("pushMessage")

	if !r.IsAlive() {
		mylog.Error("connection between rabbitmq is closed", ErrConnClosed)
		go r.reconnect(r.ctx)
		return ErrConnClosed
	}

	msg, err := encodeStatus(message)
	if err != nil {
		return err
	}

	r.mu.Lock()
	ch := r.ch
	r.mu.Unlock()

	confirm, err := ch.PublishWithDeferredConfirmWithContext(ctx, exchange, RoutingKey(message.Status), false, false, msg)
	if err != nil {
		return fmt.Errorf("publish ride status: %w", err)
	}
	ok, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("wait for publish confirm: %w", err)
	}
	if !ok {
		return fmt.Errorf("publish of ride %d status was nacked", message.RideId)
	}
	mylog.Debug("ride status published", "ride-id", message.RideId, "routing-key", RoutingKey(message.Status))
	return nil
}

// ConsumeRideStatus binds a private, auto-deleted queue to every status key.
// Each process gets its own copy of every message.
func (r *RabbitMQ) ConsumeRideStatus(ctx context.Context) (<-chan amqp.Delivery, error) {
	r.mu.Lock()
	conn := r.conn
	r.mu.Unlock()
	if conn == nil || conn.IsClosed() {
		return nil, ErrConnClosed
	}

	// consumers get a channel of their own so publisher confirms stay separate
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open consumer channel: %w", err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare status queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, statusBinding, exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind status queue: %w", err)
	}
	return ch.ConsumeWithContext(ctx, q.Name, "", false, true, false, false, nil)
}

func (r *RabbitMQ) IsAlive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check if both connection and channel are initialized and not closed
	if r.conn == nil || r.conn.IsClosed() {
		return false
	}
	if r.ch == nil || r.ch.IsClosed() {
		return false
	}

	return true
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil && !r.ch.IsClosed() {
		if err := r.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %v", err)
		}
	}

	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %v", err)
		}
	}
	return nil
}

// connect to rabbitmq
func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(fmt.Sprintf("amqp://%v:%v@%v:%v/%v",
		r.cfg.User,
		r.cfg.Password,
		r.cfg.Host,
		r.cfg.Port,
		r.cfg.VHost,
	))
	if err != nil {
		return err
	}

	// try channel
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return err
	}

	r.mu.Lock()
	r.conn = conn
	r.ch = ch
	r.mu.Unlock()
	return nil
}

func (r *RabbitMQ) reconnect(ctx context.Context) {
	r.mu.Lock()
	if r.reconnecting {
		r.mu.Unlock()
		return
	}
	r.reconnecting = true
	r.mu.Unlock()

	t := time.NewTicker(time.Second * reconnInterval)
	mylog := r.mylog.Action("mb_reconnecting")

	defer func() {
		t.Stop()
		r.mu.Lock()
		r.reconnecting = false
		r.mu.Unlock()
	}()

	for {
		select {
		case <-t.C:
			if err := r.connect(); err == nil {
				mylog.Action("mb_reconnection_completed").Info("Successfully reconnected!")
				return
			}
			mylog.Info("rabbitmq failed to reconnect")

		case <-ctx.Done():
			return
		}
	}
}

// Noop is used when the broker is disabled. Status changes are then only
// visible through the HTTP API and the in-process feed.
type Noop struct{}

func (Noop) PushMessageToStatus(context.Context, messagebroker.RideStatus) error { return nil }

func (Noop) Close() error { return nil }
