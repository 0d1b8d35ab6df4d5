package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hall-management-backend/config"
	"hall-management-backend/internal/db"
	"hall-management-backend/internal/hall"
	"hall-management-backend/internal/store"
)

// openHall opens the configured storage and loads the hall service. The
// returned database is nil when neither the hall state nor push
// subscriptions need one.
func openHall(ctx context.Context, cfg *config.Config, needDB bool) (*hall.Service, *gorm.DB, error) {
	order, err := hall.ParseMeritOrder(cfg.Allocation.MeritOrder)
	if err != nil {
		return nil, nil, err
	}

	var (
		gormDB  *gorm.DB
		gateway hall.Gateway
	)
	if cfg.Storage.Backend == "database" || needDB {
		gormDB, err = db.Init(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	switch cfg.Storage.Backend {
	case "database":
		gateway = store.NewGormStore(gormDB)
	case "file":
		gateway = store.NewFileStore(cfg.Storage.FilePath)
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	logrus.WithField("backend", cfg.Storage.Backend).Info("Data store initialized")

	svc, err := hall.New(ctx, gateway, hall.WithMeritOrder(order))
	if err != nil {
		return nil, nil, err
	}
	return svc, gormDB, nil
}

// seedHall creates the admin account and the configured rooms on first start.
func seedHall(ctx context.Context, svc *hall.Service, seed config.SeedConfig) error {
	if seed.AdminPassword == "" {
		if len(svc.Snapshot().Users) == 0 {
			logrus.Warn("No users exist and seed.admin_password is empty; admin API will be unreachable")
		}
		return nil
	}
	rooms := make([]hall.Room, 0, len(seed.Rooms))
	for _, r := range seed.Rooms {
		rooms = append(rooms, hall.Room{Number: r.Number, Capacity: r.Capacity})
	}
	_, err := svc.Seed(ctx, seed.AdminUsername, seed.AdminPassword, rooms)
	return err
}
