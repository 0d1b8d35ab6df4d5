package hall

import "errors"

var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrAlreadyAssigned     = errors.New("student already assigned to a room")
	ErrRoomNotEmpty        = errors.New("cannot delete room with occupants")
	ErrPersistence         = errors.New("failed to persist hall state")
	ErrDuplicateStudent    = errors.New("student already exists")
	ErrDuplicateRoom       = errors.New("room number already exists")
	ErrInvalidCapacity     = errors.New("room capacity must be at least 1")
	ErrComplaintNotFound   = errors.New("complaint not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDuplicateUser       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInconsistentState   = errors.New("inconsistent hall state")
)

// errNoChange tells mutate that the operation succeeded without touching
// any state, so nothing is persisted or published.
var errNoChange = errors.New("no change")
