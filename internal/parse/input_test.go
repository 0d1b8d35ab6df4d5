package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hall-management-backend/internal/hall"
)

func TestRoomNumber(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  string
		expectErr bool
	}{
		{name: "Canonical", raw: "R101", expected: "R101"},
		{name: "Lower case with spaces", raw: "  r204 ", expected: "R204"},
		{name: "Bare number", raw: "305", expected: "R305"},
		{name: "Empty", raw: "", expectErr: true},
		{name: "Letters after prefix", raw: "RA01", expectErr: true},
		{name: "Wrong prefix", raw: "B101", expectErr: true},
		{name: "Prefix only", raw: "R", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RoomNumber(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCapacity(t *testing.T) {
	assert.Error(t, Capacity(0))
	assert.NoError(t, Capacity(1))
	assert.NoError(t, Capacity(10))
	assert.Error(t, Capacity(11))
}

func TestContact(t *testing.T) {
	got, err := Contact("0171-234 567")
	assert.NoError(t, err)
	assert.Equal(t, "0171234567", got)

	got, err = Contact("171234567")
	assert.NoError(t, err)
	assert.Equal(t, "171234567", got)

	got, err = Contact("")
	assert.NoError(t, err)
	assert.Empty(t, got)

	_, err = Contact("12345")
	assert.Error(t, err)
	_, err = Contact("12345abcde")
	assert.Error(t, err)
}

func TestStudent(t *testing.T) {
	valid := hall.Student{ID: " S001 ", Name: " John Doe ", Contact: "0171234567", Distance: 120, Merit: 45, Income: 25000, Department: "CSE", RoomNumber: "R101"}

	got, err := Student(valid)
	assert.NoError(t, err)
	assert.Equal(t, hall.Student{ID: "S001", Name: "John Doe", Contact: "0171234567", Distance: 120, Merit: 45, Income: 25000, Department: "CSE"}, got)

	testCases := []struct {
		name   string
		mutate func(*hall.Student)
	}{
		{name: "Missing ID", mutate: func(s *hall.Student) { s.ID = "" }},
		{name: "ID with spaces", mutate: func(s *hall.Student) { s.ID = "S 1" }},
		{name: "Missing name", mutate: func(s *hall.Student) { s.Name = "  " }},
		{name: "Negative distance", mutate: func(s *hall.Student) { s.Distance = -1 }},
		{name: "Merit zero", mutate: func(s *hall.Student) { s.Merit = 0 }},
		{name: "Merit too high", mutate: func(s *hall.Student) { s.Merit = 8001 }},
		{name: "Negative income", mutate: func(s *hall.Student) { s.Income = -5 }},
		{name: "Bad contact", mutate: func(s *hall.Student) { s.Contact = "12" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := valid
			tc.mutate(&st)
			_, err := Student(st)
			assert.Error(t, err)
		})
	}
}
