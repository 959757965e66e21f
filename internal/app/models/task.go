package models

import "time"

// Task is a user's personal to-do item. When it originated from a classroom
// assignment, ClassroomID and ClassroomTaskID carry the back-references used
// by the sync routine. ClassroomID intentionally has no foreign key so copies
// survive classroom deletion until the next sync reconciles them.
type Task struct {
	ID              int64      `json:"id" db:"id"`
	UserID          int64      `json:"userId" db:"user_id"`
	TaskName        string     `json:"taskName" db:"task_name"`
	Description     string     `json:"description" db:"description"`
	Category        string     `json:"category" db:"category"`
	PriorityLevel   int        `json:"priorityLevel" db:"priority_level"` // 0..3
	DeadLine        *time.Time `json:"deadLine,omitempty" db:"dead_line"`
	IsFinished      bool       `json:"isFinished" db:"is_finished"`
	ClassroomID     *int64     `json:"classroomId,omitempty" db:"classroom_id"`
	ClassroomTaskID *int64     `json:"classroomTaskId,omitempty" db:"classroom_task_id"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`

	// Related entities
	Attachments []*File `json:"attachments,omitempty"`
}

// IsClassroomCopy reports whether the task is a synced copy of a classroom assignment.
func (t *Task) IsClassroomCopy() bool {
	return t.ClassroomID != nil && t.ClassroomTaskID != nil
}

// Category is a per-user named grouping used to tag tasks. Tasks reference
// categories by name only; deleting a category blanks the matching task fields.
type Category struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"userId" db:"user_id"`
	CategoryName string    `json:"categoryName" db:"category_name"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
