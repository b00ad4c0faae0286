package db

import (
	"context"
	"fmt"
	"time"

	"github.com/orlantquijada/wingz/internal/config"
	"github.com/orlantquijada/wingz/internal/mylogger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	cfg   *config.DBconfig
	mylog mylogger.Logger
	pool  *pgxpool.Pool
}

// New opens a connection pool and verifies it with a ping.
func New(ctx context.Context, dbCfg *config.DBconfig, mylog mylogger.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(dbCfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	if dbCfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(dbCfg.MaxConns)
	}
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute
	poolCfg.ConnConfig.Tracer = &QueryCounter{}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	d := &DB{
		cfg:   dbCfg,
		mylog: mylog,
		pool:  pool,
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := d.IsAlive(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	mylog.Info("connected to database", "host", dbCfg.Host, "port", dbCfg.Port, "database", dbCfg.Database)
	return d, nil
}

// Close releases every pooled connection.
func (d *DB) Close() error {
	d.pool.Close()
	d.mylog.Info("database pool closed")
	return nil
}

// IsAlive pings the DB to verify it's responsive
func (d *DB) IsAlive(ctx context.Context) error {
	if d.pool == nil {
		return fmt.Errorf("DB is not initialized")
	}
	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}
