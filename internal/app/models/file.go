package models

import "time"

// File represents a stored attachment in the system
type File struct {
	ID         int64     `json:"id" db:"id"`
	FileName   string    `json:"fileName" db:"file_name"`
	FilePath   string    `json:"filePath" db:"file_path"`
	FileURL    string    `json:"fileUrl" db:"file_url"`
	FileSize   int64     `json:"fileSize" db:"file_size"`
	FileType   string    `json:"fileType" db:"file_type"` // MIME type
	UploadedBy int64     `json:"uploadedBy" db:"uploaded_by"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// ClassroomTaskFile represents the association between classroom tasks and files
type ClassroomTaskFile struct {
	ID              int64     `json:"id" db:"id"`
	ClassroomTaskID int64     `json:"classroomTaskId" db:"classroom_task_id"`
	FileID          int64     `json:"fileId" db:"file_id"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// TaskFile represents the association between personal tasks and files
type TaskFile struct {
	ID        int64     `json:"id" db:"id"`
	TaskID    int64     `json:"taskId" db:"task_id"`
	FileID    int64     `json:"fileId" db:"file_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
