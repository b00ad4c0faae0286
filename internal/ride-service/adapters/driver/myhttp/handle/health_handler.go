package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/orlantquijada/wingz/internal/mylogger"
	"github.com/orlantquijada/wingz/internal/ride-service/core/ports"
)

const ServiceName = "ride-service"

type HealthHandler struct {
	db    ports.IDB
	mylog mylogger.Logger
}

func NewHealthHandler(db ports.IDB, mylog mylogger.Logger) *HealthHandler {
	return &HealthHandler{
		db:    db,
		mylog: mylog,
	}
}

func (hh *HealthHandler) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), WaitTime*time.Second)
		defer cancel()

		if err := hh.db.IsAlive(ctx); err != nil {
			hh.mylog.Action("Health").Warn("database is not reachable", "error", err.Error())
			jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "unavailable",
				"service": ServiceName,
			})
			return
		}

		jsonResponse(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": ServiceName,
		})
	}
}
