package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/orlantquijada/wingz/internal/config"
	"github.com/orlantquijada/wingz/internal/mylogger"
	rideservice "github.com/orlantquijada/wingz/internal/ride-service"
	"github.com/orlantquijada/wingz/internal/ride-service/adapters/driven/db"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/dto"
	"github.com/orlantquijada/wingz/internal/ride-service/core/domain/model"
	"github.com/orlantquijada/wingz/internal/ride-service/core/myerrors"
	"github.com/orlantquijada/wingz/internal/ride-service/core/services"
)

const usage = `usage: app <command> [flags]

commands:
  ride-service   run the HTTP API
  migrate        apply pending database migrations and exit
  create-admin   create an admin user (-email, -password or ADMIN_EMAIL, ADMIN_PASSWORD)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	mylog, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "ride-service":
		rideCmd := flag.NewFlagSet("ride-service", flag.ExitOnError)
		port := rideCmd.String("port", cfg.Srv.RideServicePort, "port to listen on")
		rideCmd.Parse(os.Args[2:])
		cfg.Srv.RideServicePort = *port

		err = rideservice.Execute(ctx, mylog.With("service", "ride-service"), cfg)
	case "migrate":
		err = migrate(ctx, mylog.Action("migrate"), cfg)
	case "create-admin":
		adminCmd := flag.NewFlagSet("create-admin", flag.ExitOnError)
		email := adminCmd.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
		password := adminCmd.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
		firstName := adminCmd.String("first-name", "Admin", "first name")
		lastName := adminCmd.String("last-name", "User", "last name")
		adminCmd.Parse(os.Args[2:])

		err = createAdmin(ctx, mylog.Action("create_admin"), cfg, dto.UserRegistrationRequest{
			Role:      string(model.RoleAdmin),
			FirstName: *firstName,
			LastName:  *lastName,
			Email:     *email,
			Password:  *password,
		})
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		mylog.Error("command failed", err, "command", os.Args[1])
		os.Exit(1)
	}
}

func migrate(ctx context.Context, mylog mylogger.Logger, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	database, err := db.New(ctx, cfg.DB, mylog)
	if err != nil {
		return err
	}
	defer database.Close()

	return database.Migrate(ctx)
}

func createAdmin(ctx context.Context, mylog mylogger.Logger, cfg *config.Config, req dto.UserRegistrationRequest) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	database, err := db.New(ctx, cfg.DB, mylog)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}

	// tokens are never issued here
	users := services.NewUserService(mylog, db.NewUsersRepo(database), nil)
	user, err := users.Register(ctx, req)
	if err != nil {
		var verr *myerrors.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid admin: %v", verr.Fields)
		}
		return err
	}

	mylog.Info("admin created", "user_id", user.ID, "email", user.Email)
	return nil
}
