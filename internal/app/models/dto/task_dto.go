package dto

import (
	"time"

	"github.com/yigit/taskroom/internal/app/models"
)

// CreateTaskRequest represents the payload for creating a personal task
type CreateTaskRequest struct {
	TaskName      string     `json:"taskName" binding:"required,min=1,max=200"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	PriorityLevel *int       `json:"priorityLevel" binding:"omitempty,min=0,max=3"`
	DeadLine      *time.Time `json:"deadLine"`
}

// UpdateTaskRequest represents a partial update of a personal task.
// Nil fields are left untouched.
type UpdateTaskRequest struct {
	TaskName      *string    `json:"taskName" binding:"omitempty,min=1,max=200"`
	Description   *string    `json:"description"`
	Category      *string    `json:"category"`
	PriorityLevel *int       `json:"priorityLevel" binding:"omitempty,min=0,max=3"`
	DeadLine      *time.Time `json:"deadLine"`
	IsFinished    *bool      `json:"isFinished"`
}

// TaskListFilter holds the query parameters of a task list request
type TaskListFilter struct {
	Category     *string
	IsFinished   *bool
	DeadlineFrom *time.Time
	DeadlineTo   *time.Time
	Page         int
	PageSize     int
}

// TaskResponse represents a personal task on the wire
type TaskResponse struct {
	ID              int64          `json:"id"`
	TaskName        string         `json:"taskName"`
	Description     string         `json:"description"`
	Category        string         `json:"category"`
	PriorityLevel   int            `json:"priorityLevel"`
	DeadLine        *time.Time     `json:"deadLine,omitempty"`
	IsFinished      bool           `json:"isFinished"`
	ClassroomID     *int64         `json:"classroomId,omitempty"`
	ClassroomTaskID *int64         `json:"classroomTaskId,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	Attachments     []FileResponse `json:"attachments"`
}

// TaskListResponse is a paginated task list
type TaskListResponse struct {
	Tasks          []TaskResponse `json:"tasks"`
	PaginationInfo PaginationInfo `json:"paginationInfo"`
}

// NewTaskResponse maps a task model onto the wire representation
func NewTaskResponse(t *models.Task) TaskResponse {
	resp := TaskResponse{
		ID:              t.ID,
		TaskName:        t.TaskName,
		Description:     t.Description,
		Category:        t.Category,
		PriorityLevel:   t.PriorityLevel,
		DeadLine:        t.DeadLine,
		IsFinished:      t.IsFinished,
		ClassroomID:     t.ClassroomID,
		ClassroomTaskID: t.ClassroomTaskID,
		CreatedAt:       t.CreatedAt,
		Attachments:     []FileResponse{},
	}
	for _, f := range t.Attachments {
		resp.Attachments = append(resp.Attachments, NewFileResponse(f))
	}
	return resp
}

// CategoryRequest represents the payload for creating or renaming a category
type CategoryRequest struct {
	CategoryName string `json:"categoryName" binding:"required,min=1,max=100"`
}

// CategoryResponse represents a category on the wire
type CategoryResponse struct {
	ID           int64  `json:"id"`
	CategoryName string `json:"categoryName"`
}

// SyncStatsResponse reports what a sync run changed
type SyncStatsResponse struct {
	ClassroomsRemoved int       `json:"classroomsRemoved"`
	TasksAdded        int       `json:"tasksAdded"`
	TasksUpdated      int       `json:"tasksUpdated"`
	TasksDeleted      int       `json:"tasksDeleted"`
	SyncedAt          time.Time `json:"syncedAt"`
}
