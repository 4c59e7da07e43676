package models

import "time"

type Status string

const (
	StatusOpen    Status = "OPEN"
	StatusWorking Status = "WORKING"
	StatusDone    Status = "DONE"
	StatusOverdue Status = "OVERDUE"
)

// Statuses lists every valid status in declaration order.
var Statuses = []Status{
	StatusOpen,
	StatusWorking,
	StatusDone,
	StatusOverdue,
}

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusWorking, StatusDone, StatusOverdue:
		return true
	default:
		return false
	}
}

const (
	TitleMaxLength       = 100
	DescriptionMaxLength = 1000
	TagsMaxLength        = 100
)

// DateLayout is the wire and storage format of due dates.
const DateLayout = time.DateOnly

type Task struct {
	ID          int64
	Title       string
	Description string
	DueDate     *time.Time
	Tags        *string
	Status      Status
	CreatedAt   time.Time
}

// TaskFilter narrows a task listing. Zero values mean "no constraint".
type TaskFilter struct {
	Status    *Status
	DueDate   *time.Time
	CreatedOn *time.Time
	Search    string
}
