package models

import "time"

// Attendance statuses recorded by the client.
const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
	AttendanceLate    = "LATE"
	AttendanceExcused = "EXCUSED"
)

// AttendanceRecord marks one student's presence on one date.
type AttendanceRecord struct {
	ID        string     `db:"id" json:"id"`
	StudentID string     `db:"student_id" json:"studentId"`
	Date      time.Time  `db:"date" json:"date"`
	Status    string     `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
	IsDeleted bool       `db:"is_deleted" json:"isDeleted"`
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

// AttendanceDetail joins the record with its student for listings and exports.
type AttendanceDetail struct {
	AttendanceRecord
	StudentName string `db:"student_name" json:"studentName"`
}

// AttendanceFilter narrows attendance listings to a class and date window.
type AttendanceFilter struct {
	ClassID string
	From    *time.Time
	To      *time.Time
}
