package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/orlantquijada/wingz/internal/auth"
	"github.com/orlantquijada/wingz/internal/config"
	"github.com/orlantquijada/wingz/internal/mylogger"
	"github.com/orlantquijada/wingz/internal/ride-service/adapters/driven/bm"
	"github.com/orlantquijada/wingz/internal/ride-service/adapters/driven/db"
	"github.com/orlantquijada/wingz/internal/ride-service/adapters/driven/notification"
	"github.com/orlantquijada/wingz/internal/ride-service/adapters/driver/myhttp/handle"
	"github.com/orlantquijada/wingz/internal/ride-service/adapters/driver/myhttp/middleware"
	"github.com/orlantquijada/wingz/internal/ride-service/adapters/driver/myhttp/ws"
	"github.com/orlantquijada/wingz/internal/ride-service/core/ports"
	"github.com/orlantquijada/wingz/internal/ride-service/core/services"

	websocketdto "github.com/orlantquijada/wingz/internal/ride-service/core/domain/websocket_dto"
)

var ErrServerClosed = errors.New("Server closed")

const WaitTime = 10

type Server struct {
	mux        *http.ServeMux
	cfg        *config.Config
	srv        *http.Server
	mylog      mylogger.Logger
	db         *db.DB
	mb         ports.IRidesBroker
	rabbit     *bm.RabbitMQ
	dispatcher *ws.Dispatcher
	ctx        context.Context
	appCtx     context.Context
	mu         sync.Mutex
	wg         sync.WaitGroup
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	s := &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}

	return s
}

// Run connects storage and the broker, applies migrations, registers routes and starts listening.
// It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	// Initialize database connection
	db, err := db.New(s.ctx, s.cfg.DB, mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	mylog.Info("Successful database connection")

	if err := s.db.Migrate(s.ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Initialize RabbitMQ connection
	if s.cfg.RabbitMq.Enabled {
		mb, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		s.rabbit = mb
		s.mb = mb
		mylog.Info("Successful message broker connection")
	} else {
		s.mb = bm.Noop{}
		mylog.Info("message broker disabled, ride status is broadcast locally only")
	}

	// Configure routes and handlers
	if err := s.Configure(); err != nil {
		return err
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%v", s.cfg.Srv.RideServicePort),
		Handler:           middleware.Request(s.mylog, s.mux),
		ReadHeaderTimeout: WaitTime * time.Second,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.RideServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.dispatcher != nil {
		s.dispatcher.Close()
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
		}
	}

	// the relay exits once the broker channel is closed
	s.wg.Wait()

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Info("Database closed")
	}

	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// discardFeed stands in for the live feed when the broker relay owns broadcasting.
type discardFeed struct{}

func (discardFeed) Broadcast(websocketdto.Event) {}

// Configure wires repositories, services and handlers and registers every route.
func (s *Server) Configure() error {
	// Repositories
	ridesRepo := db.NewRidesRepo(s.db)
	eventsRepo := db.NewRideEventsRepo(s.db)
	usersRepo := db.NewUsersRepo(s.db)

	tokens := auth.NewTokenManager(s.cfg.App.JwtSecret, s.cfg.App.JwtTTL)

	// live feed
	s.dispatcher = ws.NewDispatcher(s.ctx, s.mylog)
	var feed ports.INotifyWebsocket = s.dispatcher
	if s.rabbit != nil {
		relay := notification.New(s.appCtx, &s.wg, s.mylog, s.dispatcher, s.rabbit)
		if err := relay.Run(); err != nil {
			return fmt.Errorf("failed to start ride status relay: %w", err)
		}
		feed = discardFeed{}
	}

	// services
	planner := services.NewRideQueryPlanner(s.mylog, ridesRepo, eventsRepo, s.cfg.App.RecentEventsWindow)
	rideService := services.NewRidesService(s.mylog, ridesRepo, eventsRepo, planner, s.mb, feed)
	userService := services.NewUserService(s.mylog, usersRepo, tokens)

	// handlers
	rideHandler := handle.NewRidesHandler(planner, rideService, s.mylog, s.cfg.App.PageSize, s.cfg.App.MaxPageSize)
	authHandler := handle.NewAuthHandler(userService, s.mylog)
	healthHandler := handle.NewHealthHandler(s.db, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(tokens, s.mylog)

	Routes(s.mux, authMiddleware, rideHandler, authHandler, healthHandler, s.dispatcher)
	return nil
}

// Routes registers the API on mux. Every path also answers with a trailing slash.
func Routes(
	mux *http.ServeMux,
	am *middleware.AuthMiddleware,
	rides *handle.RidesHandler,
	users *handle.AuthHandler,
	health *handle.HealthHandler,
	feed *ws.Dispatcher,
) {
	route := func(method, path string, h http.Handler) {
		mux.Handle(method+" "+path, h)
		mux.Handle(method+" "+path+"/{$}", h)
	}

	route("GET", "/rides", am.AdminOnly(rides.ListRides()))
	route("POST", "/rides", am.AdminOnly(rides.CreateRide()))
	route("GET", "/rides/{ride_id}", am.AdminOnly(rides.GetRide()))
	route("PATCH", "/rides/{ride_id}", am.AdminOnly(rides.UpdateRide()))
	route("GET", "/rides/{ride_id}/events", am.AdminOnly(rides.ListEvents()))

	route("POST", "/users", am.AdminOnly(users.Register()))
	route("POST", "/auth/token", users.Login())

	route("GET", "/health", health.Health())

	// websocket routes
	route("GET", "/ws/rides/events", am.AdminOnly(feed.WsHandler()))
}
