package db

import (
	"errors"
	"fmt"

	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// constraintFields maps named constraints to the request field they guard.
var constraintFields = map[string]string{
	"ride_pickup_latitude_range":   "pickup_latitude",
	"ride_pickup_longitude_range":  "pickup_longitude",
	"ride_dropoff_latitude_range":  "dropoff_latitude",
	"ride_dropoff_longitude_range": "dropoff_longitude",
	"ride_status_valid":            "status",
	"ride_rider_fk":                "rider_id",
	"ride_driver_fk":               "driver_id",
	"user_role_valid":              "role",
	"ride_event_description_valid": "description",
	"users_email_lower_key":        "email",
}

// translateError maps driver errors onto the core error vocabulary.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return myerrors.ErrNotFound
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", myerrors.ErrDBConnClosed, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if constraintFields[pgErr.ConstraintName] == "email" {
			return myerrors.ErrEmailRegistered
		}
		return myerrors.FieldError(fieldFor(pgErr), "This value is already in use.")
	case pgForeignKeyViolation:
		return myerrors.FieldError(fieldFor(pgErr), "Invalid pk - object does not exist.")
	case pgCheckViolation:
		return myerrors.FieldError(fieldFor(pgErr), fmt.Sprintf("Value violates constraint %q.", pgErr.ConstraintName))
	case pgNotNullViolation:
		return myerrors.FieldError(fieldFor(pgErr), "This field is required.")
	}
	return fmt.Errorf("postgres %s: %w", pgErr.Code, err)
}

func fieldFor(pgErr *pgconn.PgError) string {
	if f, ok := constraintFields[pgErr.ConstraintName]; ok {
		return f
	}
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	return myerrors.NonFieldErrors
}
