// Package hall owns the dormitory state: students, rooms and the seat
// assignments between them, plus the complaints, appointment requests and
// user accounts that hang off students.
//
// A Service is the only writer of the student/room cross reference. Every
// operation runs to completion under one lock, is saved through the Gateway
// and then announced to registered listeners.
package hall

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Service manages the hall registries.
type Service struct {
	mu           sync.Mutex
	gateway      Gateway
	students     *studentRegistry
	rooms        *roomRegistry
	users        *userRegistry
	complaints   []Complaint
	appointments []Appointment
	seq          Sequences

	meritOrder   MeritOrder
	passwordCost int

	listenersMu sync.RWMutex
	listeners   []func(Event)
}

// Option configures a Service.
type Option func(*Service)

// WithMeritOrder sets the merit tie-break direction used by RunAllocation.
func WithMeritOrder(order MeritOrder) Option {
	return func(s *Service) { s.meritOrder = order }
}

// WithPasswordCost sets the bcrypt cost for new credentials.
func WithPasswordCost(cost int) Option {
	return func(s *Service) { s.passwordCost = cost }
}

// New loads the hall state from gw and returns a service owning it.
func New(ctx context.Context, gw Gateway, opts ...Option) (*Service, error) {
	snap, err := gw.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load hall state: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		gateway:      gw,
		students:     newStudentRegistry(),
		rooms:        newRoomRegistry(),
		users:        newUserRegistry(),
		complaints:   append([]Complaint(nil), snap.Complaints...),
		appointments: append([]Appointment(nil), snap.Appointments...),
		seq:          snap.Sequences,
		meritOrder:   DefaultMeritOrder,
		passwordCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, st := range snap.Students {
		s.students.add(st)
	}
	for _, room := range snap.Rooms {
		s.rooms.add(room)
	}
	for _, u := range snap.Users {
		s.users.add(u)
	}

	logrus.WithFields(logrus.Fields{
		"students": s.students.len(),
		"rooms":    s.rooms.len(),
		"users":    s.users.len(),
	}).Info("Hall state loaded")
	return s, nil
}

// mutate runs fn under the service lock, saves the state when fn changed it
// and publishes the resulting events after the lock is released. A failed
// save keeps the in-memory change and is returned wrapped in ErrPersistence.
func (s *Service) mutate(ctx context.Context, fn func() ([]Event, error)) error {
	s.mu.Lock()
	events, err := fn()
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}
	saveErr := s.persistLocked(ctx)
	s.mu.Unlock()

	s.publish(events)
	return saveErr
}

func (s *Service) persistLocked(ctx context.Context) error {
	if err := s.gateway.Save(ctx, s.snapshotLocked()); err != nil {
		logrus.WithError(err).Error("Failed to save hall state; in-memory change kept")
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

func (s *Service) snapshotLocked() Snapshot {
	return Snapshot{
		Students:     s.students.list(),
		Rooms:        s.rooms.list(),
		Users:        s.users.list(),
		Complaints:   append([]Complaint(nil), s.complaints...),
		Appointments: append([]Appointment(nil), s.appointments...),
		Sequences:    s.seq,
	}
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Students returns all students in enrollment order.
func (s *Service) Students() []Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.students.list()
}

// Student returns one student by ID.
func (s *Service) Student(id string) (Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.students.get(id)
	if !ok {
		return Student{}, ErrStudentNotFound
	}
	return *st, nil
}

// Rooms returns all rooms in creation order.
func (s *Service) Rooms() []Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms.list()
}

// Room returns one room by number.
func (s *Service) Room(number string) (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms.get(number)
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	return room.clone(), nil
}

// AvailableRooms returns rooms with at least one free seat, in creation order.
func (s *Service) AvailableRooms() []Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Room
	for _, room := range s.rooms.order {
		if room.HasSpace() {
			out = append(out, room.clone())
		}
	}
	return out
}

// Seed creates the administrator account and the given rooms when the hall
// has no users yet. It reports whether seeding happened.
func (s *Service) Seed(ctx context.Context, adminUsername, adminPassword string, rooms []Room) (bool, error) {
	s.mu.Lock()
	empty := s.users.len() == 0
	s.mu.Unlock()
	if !empty {
		return false, nil
	}

	if err := s.AddUser(ctx, adminUsername, adminPassword, RoleAdmin); err != nil {
		return false, fmt.Errorf("failed to seed admin account: %w", err)
	}
	for _, room := range rooms {
		if err := s.AddRoom(ctx, room.Number, room.Capacity); err != nil && !errors.Is(err, ErrDuplicateRoom) {
			return true, fmt.Errorf("failed to seed room %s: %w", room.Number, err)
		}
	}
	logrus.WithFields(logrus.Fields{"admin": adminUsername, "rooms": len(rooms)}).Info("Seeded empty hall")
	return true, nil
}
