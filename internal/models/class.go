package models

import "time"

// Class represents a classroom group. Field names on the wire are camelCase
// because synchronized rows travel back to the same mobile client that
// authored them.
type Class struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
	IsDeleted   bool       `db:"is_deleted" json:"isDeleted"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

// ClassManager links a user to a class they manage.
type ClassManager struct {
	ClassID    string    `db:"class_id" json:"classId"`
	UserID     string    `db:"user_id" json:"userId"`
	AssignedAt time.Time `db:"assigned_at" json:"assignedAt"`
}
