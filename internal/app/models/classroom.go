package models

import "time"

// Classroom represents a teacher-owned grouping of students and assignments,
// joined via a short code.
type Classroom struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Code      string    `json:"code" db:"code"` // 6-char join code, unique among live classrooms
	TeacherID int64     `json:"teacherId" db:"teacher_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Teacher  *User   `json:"teacher,omitempty"`
	Students []*User `json:"students,omitempty"`
}

// ClassroomStudent represents a student's membership in a classroom
type ClassroomStudent struct {
	ID          int64     `json:"id" db:"id"`
	ClassroomID int64     `json:"classroomId" db:"classroom_id"`
	UserID      int64     `json:"userId" db:"user_id"`
	JoinedAt    time.Time `json:"joinedAt" db:"joined_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}

// ClassroomTask is the canonical assignment document owned by a classroom.
// Student copies in the tasks table reference it via classroom_task_id.
type ClassroomTask struct {
	ID          int64      `json:"id" db:"id"`
	ClassroomID int64      `json:"classroomId" db:"classroom_id"`
	TaskName    string     `json:"taskName" db:"task_name"`
	Description string     `json:"description" db:"description"`
	DeadLine    *time.Time `json:"deadLine,omitempty" db:"dead_line"`
	Category    string     `json:"category" db:"category"`
	CreatedBy   int64      `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Related entities
	Files []*File `json:"files,omitempty"`
}
