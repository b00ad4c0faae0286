package ports

import (
	"context"

	messagebrokerdto "github.com/orlantquijada/wingz/internal/ride-service/core/domain/message_broker_dto"
)

const RideStatusRoutingKey = "ride.status.%s"

type IRidesBroker interface {
	Close() error
	PushMessageToStatus(ctx context.Context, msg messagebrokerdto.RideStatus) error
}
