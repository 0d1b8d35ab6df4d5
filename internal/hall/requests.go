package hall

import (
	"context"
	"fmt"
)

// Complaint is an issue a student raised with the hall office.
type Complaint struct {
	ID          string `json:"id" yaml:"id"`
	StudentID   string `json:"studentId" yaml:"student_id"`
	Description string `json:"description" yaml:"description"`
	Resolved    bool   `json:"resolved" yaml:"resolved"`
}

// Appointment is a student's request to meet a hall authority.
type Appointment struct {
	ID        string `json:"id" yaml:"id"`
	StudentID string `json:"studentId" yaml:"student_id"`
	Authority string `json:"authority" yaml:"authority"`
	Date      string `json:"date" yaml:"date"`
	Time      string `json:"time" yaml:"time"`
	Approved  bool   `json:"approved" yaml:"approved"`
}

// SubmitComplaint files a complaint for an enrolled student.
func (s *Service) SubmitComplaint(ctx context.Context, studentID, description string) (Complaint, error) {
	var created Complaint
	err := s.mutate(ctx, func() ([]Event, error) {
		if _, ok := s.students.get(studentID); !ok {
			return nil, ErrStudentNotFound
		}
		s.seq.Complaint++
		created = Complaint{
			ID:          fmt.Sprintf("C%d", s.seq.Complaint),
			StudentID:   studentID,
			Description: description,
		}
		s.complaints = append(s.complaints, created)
		return []Event{{Kind: EventComplaintSubmitted, StudentID: studentID, RefID: created.ID}}, nil
	})
	return created, err
}

// ResolveComplaint marks a complaint resolved. Resolving twice is a no-op.
func (s *Service) ResolveComplaint(ctx context.Context, id string) error {
	return s.mutate(ctx, func() ([]Event, error) {
		for i := range s.complaints {
			c := &s.complaints[i]
			if c.ID != id {
				continue
			}
			if c.Resolved {
				return nil, errNoChange
			}
			c.Resolved = true
			return []Event{{Kind: EventComplaintResolved, StudentID: c.StudentID, RefID: id}}, nil
		}
		return nil, ErrComplaintNotFound
	})
}

// Complaints returns every complaint in submission order.
func (s *Service) Complaints() []Complaint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Complaint(nil), s.complaints...)
}

// StudentComplaints returns the complaints filed by one student.
func (s *Service) StudentComplaints(studentID string) []Complaint {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Complaint
	for _, c := range s.complaints {
		if c.StudentID == studentID {
			out = append(out, c)
		}
	}
	return out
}

// RequestAppointment records a pending appointment request.
func (s *Service) RequestAppointment(ctx context.Context, studentID, authority, date, clock string) (Appointment, error) {
	var created Appointment
	err := s.mutate(ctx, func() ([]Event, error) {
		if _, ok := s.students.get(studentID); !ok {
			return nil, ErrStudentNotFound
		}
		s.seq.Appointment++
		created = Appointment{
			ID:        fmt.Sprintf("A%d", s.seq.Appointment),
			StudentID: studentID,
			Authority: authority,
			Date:      date,
			Time:      clock,
		}
		s.appointments = append(s.appointments, created)
		return []Event{{Kind: EventAppointmentRequested, StudentID: studentID, RefID: created.ID}}, nil
	})
	return created, err
}

// ApproveAppointment marks a request approved.
func (s *Service) ApproveAppointment(ctx context.Context, id string) error {
	return s.mutate(ctx, func() ([]Event, error) {
		for i := range s.appointments {
			a := &s.appointments[i]
			if a.ID != id {
				continue
			}
			if a.Approved {
				return nil, errNoChange
			}
			a.Approved = true
			return []Event{{Kind: EventAppointmentApproved, StudentID: a.StudentID, RefID: id}}, nil
		}
		return nil, ErrAppointmentNotFound
	})
}

// RejectAppointment drops a request. Its ID is not reused.
func (s *Service) RejectAppointment(ctx context.Context, id string) error {
	return s.mutate(ctx, func() ([]Event, error) {
		for i, a := range s.appointments {
			if a.ID != id {
				continue
			}
			s.appointments = append(s.appointments[:i], s.appointments[i+1:]...)
			return []Event{{Kind: EventAppointmentRejected, StudentID: a.StudentID, RefID: id}}, nil
		}
		return nil, ErrAppointmentNotFound
	})
}

// Appointments returns every appointment request in submission order.
func (s *Service) Appointments() []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Appointment(nil), s.appointments...)
}

// StudentAppointments returns the requests made by one student.
func (s *Service) StudentAppointments(studentID string) []Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Appointment
	for _, a := range s.appointments {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out
}
