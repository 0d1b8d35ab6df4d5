package parse

import (
	"fmt"
	"regexp"
	"strings"

	"hall-management-backend/internal/hall"
)

var (
	roomRe    = regexp.MustCompile(`^R\d+$`)
	contactRe = regexp.MustCompile(`^\d{9,10}$`)
	idRe      = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

const (
	MinCapacity = 1
	MaxCapacity = 10
	MinMerit    = 1
	MaxMerit    = 8000
)

// RoomNumber normalises a room number to the "R<digits>" form.
// A bare number such as "101" is accepted as "R101".
func RoomNumber(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "R" + s
	}
	if !roomRe.MatchString(s) {
		return "", fmt.Errorf("invalid room number %q: expected R followed by digits", raw)
	}
	return s, nil
}

// Capacity checks the number of seats a room may be created with.
func Capacity(n int) error {
	if n < MinCapacity || n > MaxCapacity {
		return fmt.Errorf("capacity %d out of range %d..%d", n, MinCapacity, MaxCapacity)
	}
	return nil
}

// StudentID trims and checks a student identifier.
func StudentID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if !idRe.MatchString(s) {
		return "", fmt.Errorf("invalid student id %q", raw)
	}
	return s, nil
}

// Contact strips spaces and dashes and requires 9 or 10 digits. An empty
// contact is allowed.
func Contact(raw string) (string, error) {
	s := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))
	if s == "" {
		return "", nil
	}
	if !contactRe.MatchString(s) {
		return "", fmt.Errorf("invalid contact %q: expected 9 or 10 digits", raw)
	}
	return s, nil
}

// Student validates and normalises the editable fields of a student record.
// RoomNumber is cleared; seats change only through assignment.
func Student(st hall.Student) (hall.Student, error) {
	id, err := StudentID(st.ID)
	if err != nil {
		return hall.Student{}, err
	}
	st.ID = id
	st.Name = strings.TrimSpace(st.Name)
	if st.Name == "" {
		return hall.Student{}, fmt.Errorf("student %s: name is required", id)
	}
	if st.Contact, err = Contact(st.Contact); err != nil {
		return hall.Student{}, err
	}
	if st.Distance < 0 {
		return hall.Student{}, fmt.Errorf("student %s: distance must not be negative", id)
	}
	if st.Merit < MinMerit || st.Merit > MaxMerit {
		return hall.Student{}, fmt.Errorf("student %s: merit %d out of range %d..%d", id, st.Merit, MinMerit, MaxMerit)
	}
	if st.Income < 0 {
		return hall.Student{}, fmt.Errorf("student %s: income must not be negative", id)
	}
	st.Department = strings.TrimSpace(st.Department)
	st.RoomNumber = ""
	return st, nil
}
