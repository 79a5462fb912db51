package models

import "time"

// Note is a free-form teacher note attached to a student.
type Note struct {
	ID        string     `db:"id" json:"id"`
	StudentID string     `db:"student_id" json:"studentId"`
	Content   string     `db:"content" json:"content"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
	IsDeleted bool       `db:"is_deleted" json:"isDeleted"`
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}
