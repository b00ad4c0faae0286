package notification

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/orlantquijada/wingz/internal/mylogger"
	"github.com/orlantquijada/wingz/internal/ride-service/core/ports"

	messagebrokerdto "github.com/orlantquijada/wingz/internal/ride-service/core/domain/message_broker_dto"
	websocketdto "github.com/orlantquijada/wingz/internal/ride-service/core/domain/websocket_dto"

	"github.com/rabbitmq/amqp091-go"
)

type StatusConsumer interface {
	ConsumeRideStatus(ctx context.Context) (<-chan amqp091.Delivery, error)
}

// Notification relays ride status messages from the broker to the admin
// feed of this process, so every instance sees changes made by any other.
type Notification struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	log        mylogger.Logger
	dispatcher ports.INotifyWebsocket
	consumer   StatusConsumer
}

func New(
	ctx context.Context,
	wg *sync.WaitGroup,
	log mylogger.Logger,
	dispatcher ports.INotifyWebsocket,
	consumer StatusConsumer,
) *Notification {
	return &Notification{
		ctx:        ctx,
		wg:         wg,
		log:        log,
		dispatcher: dispatcher,
		consumer:   consumer,
	}
}

func (n *Notification) Run() error {
	chStatus, err := n.consumer.ConsumeRideStatus(n.ctx)
	if err != nil {
		return err
	}

	n.wg.Add(1)
	go n.work(n.ctx, chStatus, n.RideStatus)

	return nil
}

func (n *Notification) work(
	ctx context.Context,
	ch <-chan amqp091.Delivery,
	Do func(msg amqp091.Delivery) error,
) {
	log := n.log.Action("work")
	defer func() {
		log.Info("status relay is done")
		n.wg.Done()
	}()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}

			if err := Do(msg); err != nil {
				continue
			}
		case <-ctx.Done():
			return
		}
	}
}

func (n *Notification) RideStatus(msg amqp091.Delivery) error {
	log := n.log.Action("RideStatus")

	m := messagebrokerdto.RideStatus{}
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		log.Error("cannot unmarshal", err, "routing-key", msg.RoutingKey)
		msg.Nack(false, false)
		return err
	}

	event, err := websocketdto.NewRideEvent(websocketdto.RideEvent{
		RideId:      m.RideId,
		Status:      m.Status,
		Id:          m.EventId,
		Description: m.Description,
		CreatedAt:   m.Timestamp,
	})
	if err != nil {
		log.Error("cannot marshal", err)
		msg.Nack(false, false)
		return err
	}

	n.dispatcher.Broadcast(event)
	log.Debug("ride status relayed", "ride-id", m.RideId, "status", m.Status)
	return msg.Ack(false)
}
