package ws

import (
	"context"
	"net/http"
	"sync"

	"github.com/orlantquijada/wingz/internal/mylogger"
	websocketdto "github.com/orlantquijada/wingz/internal/ride-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
	"github.com/google/uuid"
)

// websocketUpgrader is used to upgrade incomming HTTP requests into a persitent websocket connection
var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// callers are authenticated by token before the upgrade
		return true
	},
}

// ClientList is a map used to help manage a map of clients
type ClientList map[*Client]bool

// Dispatcher fans ride events out to every connected admin.
type Dispatcher struct {
	ctx     context.Context
	clients ClientList
	sync.RWMutex
	log mylogger.Logger
}

func NewDispatcher(ctx context.Context, log mylogger.Logger) *Dispatcher {
	return &Dispatcher{
		ctx:     ctx,
		clients: make(ClientList),
		log:     log,
	}
}

// WsHandler upgrades an already authorized request and registers the client.
func (d *Dispatcher) WsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := mylogger.FromContext(r.Context(), d.log).Action("WsHandler")

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		client := NewClient(d.ctx, conn, d, uuid.NewString())
		d.AddClient(client)
		log.Info("feed client connected", "client-id", client.id)

		go client.ReadMessage()
		go client.WriteMessage()
	}
}

// Broadcast never blocks: a client whose buffer is full is dropped.
func (d *Dispatcher) Broadcast(msg websocketdto.Event) {
	d.RLock()
	var slow []*Client
	for c := range d.clients {
		select {
		case c.egress <- msg:
		default:
			slow = append(slow, c)
		}
	}
	d.RUnlock()

	for _, c := range slow {
		d.log.Action("Broadcast").Warn("dropping slow feed client", "client-id", c.id)
		d.RemoveClient(c)
	}
}

func (d *Dispatcher) AddClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	d.clients[client] = true
}

func (d *Dispatcher) RemoveClient(client *Client) {
	d.Lock()
	defer d.Unlock()

	if _, ok := d.clients[client]; ok {
		delete(d.clients, client)
		close(client.egress)
	}
}

func (d *Dispatcher) Len() int {
	d.RLock()
	defer d.RUnlock()
	return len(d.clients)
}

// Close disconnects every client.
func (d *Dispatcher) Close() {
	d.Lock()
	defer d.Unlock()

	for c := range d.clients {
		delete(d.clients, c)
		close(c.egress)
	}
}
