package hall

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	EventStudentAdded         EventKind = "student_added"
	EventStudentUpdated       EventKind = "student_updated"
	EventStudentDeleted       EventKind = "student_deleted"
	EventRoomAdded            EventKind = "room_added"
	EventRoomDeleted          EventKind = "room_deleted"
	EventSeatAssigned         EventKind = "seat_assigned"
	EventSeatReleased         EventKind = "seat_released"
	EventUserAdded            EventKind = "user_added"
	EventComplaintSubmitted   EventKind = "complaint_submitted"
	EventComplaintResolved    EventKind = "complaint_resolved"
	EventAppointmentRequested EventKind = "appointment_requested"
	EventAppointmentApproved  EventKind = "appointment_approved"
	EventAppointmentRejected  EventKind = "appointment_rejected"
)

// Event describes one completed mutation.
type Event struct {
	Kind       EventKind `json:"kind"`
	StudentID  string    `json:"studentId,omitempty"`
	RoomNumber string    `json:"roomNumber,omitempty"`
	RefID      string    `json:"refId,omitempty"` // complaint, appointment or username
}

// Observe registers a refresh callback run after every mutation.
func (s *Service) Observe(fn func()) {
	s.Listen(func(Event) { fn() })
}

// Listen registers a callback that receives every mutation event.
func (s *Service) Listen(fn func(Event)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// publish must be called without holding s.mu so listeners may read the service.
func (s *Service) publish(events []Event) {
	if len(events) == 0 {
		return
	}
	s.listenersMu.RLock()
	listeners := make([]func(Event), len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.RUnlock()

	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}
