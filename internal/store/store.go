package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hall-management-backend/internal/hall"
	"hall-management-backend/internal/model"
)

// Store is the database-backed hall gateway.
type Store interface {
	hall.Gateway
	// DB exposes the connection for tables outside the hall snapshot.
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

// Load reads the full hall state. An empty database yields an empty snapshot.
func (s *gormStore) Load(ctx context.Context) (hall.Snapshot, error) {
	var r rows
	db := s.db.WithContext(ctx)

	if err := db.Order("seq").Find(&r.rooms).Error; err != nil {
		return hall.Snapshot{}, fmt.Errorf("failed to load rooms: %w", err)
	}
	if err := db.Order("room_number, position").Find(&r.occupants).Error; err != nil {
		return hall.Snapshot{}, fmt.Errorf("failed to load room occupants: %w", err)
	}
	if err := db.Order("seq").Find(&r.students).Error; err != nil {
		return hall.Snapshot{}, fmt.Errorf("failed to load students: %w", err)
	}
	if err := db.Order("seq").Find(&r.users).Error; err != nil {
		return hall.Snapshot{}, fmt.Errorf("failed to load users: %w", err)
	}
	if err := db.Order("seq").Find(&r.complaints).Error; err != nil {
		return hall.Snapshot{}, fmt.Errorf("failed to load complaints: %w", err)
	}
	if err := db.Order("seq").Find(&r.appointments).Error; err != nil {
		return hall.Snapshot{}, fmt.Errorf("failed to load appointments: %w", err)
	}
	if err := db.Find(&r.counters).Error; err != nil {
		return hall.Snapshot{}, fmt.Errorf("failed to load counters: %w", err)
	}
	return toSnapshot(r), nil
}

// Save replaces the stored hall state with snap in a single transaction.
func (s *gormStore) Save(ctx context.Context, snap hall.Snapshot) error {
	r := toRows(snap)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Occupants reference students and rooms, so they go first.
		for _, table := range []any{
			&model.RoomOccupant{},
			&model.Student{},
			&model.Room{},
			&model.User{},
			&model.Complaint{},
			&model.Appointment{},
			&model.Counter{},
		} {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return fmt.Errorf("failed to clear %T: %w", table, err)
			}
		}

		if err := createAll(tx, r.students); err != nil {
			return fmt.Errorf("failed to save students: %w", err)
		}
		if err := createAll(tx, r.rooms); err != nil {
			return fmt.Errorf("failed to save rooms: %w", err)
		}
		if err := createAll(tx, r.occupants); err != nil {
			return fmt.Errorf("failed to save room occupants: %w", err)
		}
		if err := createAll(tx, r.users); err != nil {
			return fmt.Errorf("failed to save users: %w", err)
		}
		if err := createAll(tx, r.complaints); err != nil {
			return fmt.Errorf("failed to save complaints: %w", err)
		}
		if err := createAll(tx, r.appointments); err != nil {
			return fmt.Errorf("failed to save appointments: %w", err)
		}
		if err := createAll(tx, r.counters); err != nil {
			return fmt.Errorf("failed to save counters: %w", err)
		}

		logrus.WithFields(logrus.Fields{
			"students": len(r.students),
			"rooms":    len(r.rooms),
		}).Debug("Hall state saved")
		return nil
	})
}

func createAll[T any](tx *gorm.DB, records []T) error {
	if len(records) == 0 {
		return nil
	}
	return tx.CreateInBatches(records, 200).Error
}
