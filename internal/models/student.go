package models

import "time"

// Student represents a learner enrolled in a class.
type Student struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Phone     *string    `db:"phone" json:"phone,omitempty"`
	ClassID   string     `db:"class_id" json:"classId"`
	Address   *string    `db:"address" json:"address,omitempty"`
	Birthdate *time.Time `db:"birthdate" json:"birthdate,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
	IsDeleted bool       `db:"is_deleted" json:"isDeleted"`
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	ClassID        string
	IncludeDeleted bool
}
