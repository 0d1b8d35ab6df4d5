package model

// Student is the persisted form of a hall student.
type Student struct {
	ID         string `gorm:"primaryKey;size:64"`
	Seq        int    `gorm:"index;not null"` // Enrollment order
	Name       string `gorm:"size:256;not null"`
	Contact    string `gorm:"size:32"`
	Distance   int    `gorm:"not null"`
	Merit      int    `gorm:"not null"`
	Income     int    `gorm:"not null"`
	Department string `gorm:"size:64"`
	RoomNumber string `gorm:"size:32;index"`
}

// Room represents a hall room and its seat count.
type Room struct {
	Number   string `gorm:"primaryKey;size:32"`
	Seq      int    `gorm:"index;not null"` // Creation order, drives first-fit allocation
	Capacity int    `gorm:"not null"`
}

// RoomOccupant maps one seat of a room to a student.
type RoomOccupant struct {
	RoomNumber string `gorm:"primaryKey;size:32"`
	StudentID  string `gorm:"primaryKey;size:64;uniqueIndex"`
	Position   int    `gorm:"not null"` // Assignment order within the room
}

// User is a login account.
type User struct {
	Username     string `gorm:"primaryKey;size:64"`
	Seq          int    `gorm:"index;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	Role         string `gorm:"size:16;not null"`
}

// Complaint is a student complaint.
type Complaint struct {
	ID          string `gorm:"primaryKey;size:32"`
	Seq         int    `gorm:"index;not null"`
	StudentID   string `gorm:"size:64;index;not null"`
	Description string `gorm:"type:text;not null"`
	Resolved    bool   `gorm:"not null"`
}

// Appointment is a student's appointment request.
type Appointment struct {
	ID        string `gorm:"primaryKey;size:32"`
	Seq       int    `gorm:"index;not null"`
	StudentID string `gorm:"size:64;index;not null"`
	Authority string `gorm:"size:128;not null"`
	Date      string `gorm:"size:32"`
	Time      string `gorm:"size:32"`
	Approved  bool   `gorm:"not null"`
}

// Counter stores the last issued number of an ID sequence.
type Counter struct {
	Name  string `gorm:"primaryKey;size:32"`
	Value int    `gorm:"not null"`
}
