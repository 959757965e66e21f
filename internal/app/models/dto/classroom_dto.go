package dto

import (
	"time"

	"github.com/yigit/taskroom/internal/app/models"
)

// CreateClassroomRequest represents the payload for creating a classroom
type CreateClassroomRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// UpdateClassroomRequest represents the payload for renaming a classroom
type UpdateClassroomRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// JoinClassroomRequest represents a student joining via code
type JoinClassroomRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

// ClassroomResponse represents a classroom on the wire
type ClassroomResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code,omitempty"` // only exposed to the owning teacher
	TeacherID    int64     `json:"teacherId"`
	TeacherName  string    `json:"teacherName,omitempty"`
	StudentCount int       `json:"studentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ClassroomStudentResponse represents a member of a classroom
type ClassroomStudentResponse struct {
	UserID      int64     `json:"userId"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	PhotoURL    string    `json:"photoUrl,omitempty"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// ClassroomTaskRequest represents the payload for creating or replacing a
// classroom assignment
type ClassroomTaskRequest struct {
	TaskName    string     `json:"taskName" binding:"required,min=1,max=200"`
	Description string     `json:"description"`
	DeadLine    *time.Time `json:"deadLine"`
	Category    string     `json:"category"`
}

// ClassroomTaskResponse represents a classroom assignment on the wire
type ClassroomTaskResponse struct {
	ID          int64          `json:"id"`
	ClassroomID int64          `json:"classroomId"`
	TaskName    string         `json:"taskName"`
	Description string         `json:"description"`
	DeadLine    *time.Time     `json:"deadLine,omitempty"`
	Category    string         `json:"category"`
	CreatedBy   int64          `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Files       []FileResponse `json:"files"`
}

// FileResponse represents an attachment on the wire
type FileResponse struct {
	ID       int64  `json:"id"`
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
}

// NewFileResponse maps a file model onto the wire representation
func NewFileResponse(f *models.File) FileResponse {
	return FileResponse{
		ID:       f.ID,
		FileName: f.FileName,
		FileURL:  f.FileURL,
		FileSize: f.FileSize,
		FileType: f.FileType,
	}
}

// NewClassroomTaskResponse maps a classroom task model onto the wire representation
func NewClassroomTaskResponse(t *models.ClassroomTask) ClassroomTaskResponse {
	resp := ClassroomTaskResponse{
		ID:          t.ID,
		ClassroomID: t.ClassroomID,
		TaskName:    t.TaskName,
		Description: t.Description,
		DeadLine:    t.DeadLine,
		Category:    t.Category,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Files:       []FileResponse{},
	}
	for _, f := range t.Files {
		resp.Files = append(resp.Files, NewFileResponse(f))
	}
	return resp
}
