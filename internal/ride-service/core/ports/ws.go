package ports

import websocketdto "github.com/orlantquijada/wingz/internal/ride-service/core/domain/websocket_dto"

type INotifyWebsocket interface {
	Broadcast(msg websocketdto.Event)
}
