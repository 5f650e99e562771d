package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID        uuid.UUID  `json:"uuid" db:"uuid"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description,omitempty" db:"description"`
	Priority    Priority   `json:"priority" db:"priority"`
	Status      Status     `json:"status" db:"status"`
	DueDate     time.Time  `json:"due_date" db:"due_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

type Priority string
type Status string

const PriorityLow Priority = "Low"
const PriorityMedium Priority = "Medium"
const PriorityHigh Priority = "High"

const StatusPending Status = "Pending"
const StatusInProgress Status = "In Progress"
const StatusCompleted Status = "Completed"

func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// форматирование дедлайна для вывода: без времени, если задан только день
func (t *Task) FormatDueDate() string {
	if t.DueDate.Hour() == 0 && t.DueDate.Minute() == 0 {
		return t.DueDate.Format("2006-01-02")
	}
	return t.DueDate.Format("2006-01-02 15:04")
}
