package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/yigit/taskroom/internal/app/models"
	"github.com/yigit/taskroom/internal/app/models/dto"
	"github.com/yigit/taskroom/internal/app/repositories"
	"github.com/yigit/taskroom/internal/pkg/apperrors"
	"github.com/yigit/taskroom/internal/pkg/filestorage"
	"github.com/yigit/taskroom/internal/pkg/validation"
)

// TaskService handles personal tasks, including the classroom copies a
// student owns after sync.
type TaskService struct {
	taskRepo *repositories.TaskRepository
	fileRepo *repositories.FileRepository
	storage  filestorage.FileStorage
	logger   zerolog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo *repositories.TaskRepository,
	fileRepo *repositories.FileRepository,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		fileRepo: fileRepo,
		storage:  storage,
		logger:   logger,
	}
}

// CreateTask creates a personal task for the user
func (s *TaskService) CreateTask(ctx context.Context, userID int64, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	priority := models.PriorityDefault
	if req.PriorityLevel != nil {
		if !validation.IsValidPriority(*req.PriorityLevel) {
			return nil, apperrors.ErrInvalidPriority
		}
		priority = *req.PriorityLevel
	}

	task := &models.Task{
		UserID:        userID,
		TaskName:      req.TaskName,
		Description:   req.Description,
		Category:      req.Category,
		PriorityLevel: priority,
		DeadLine:      req.DeadLine,
	}

	id, err := s.taskRepo.CreateTask(ctx, task)
	if err != nil {
		return nil, err
	}
	task.ID = id

	s.logger.Info().Int64("userID", userID).Int64("taskID", id).Msg("Task created")

	resp := dto.NewTaskResponse(task)
	return &resp, nil
}

// GetTask retrieves one of the user's tasks with attachments
func (s *TaskService) GetTask(ctx context.Context, taskID, userID int64) (*dto.TaskResponse, error) {
	task, err := s.getOwnedTask(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	attachments, err := s.fileRepo.GetFilesByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.Attachments = attachments

	resp := dto.NewTaskResponse(task)
	return &resp, nil
}

// ListTasks retrieves a filtered, paginated view of the user's tasks
func (s *TaskService) ListTasks(ctx context.Context, userID int64, filter dto.TaskListFilter) (*dto.TaskListResponse, error) {
	tasks, pagination, err := s.taskRepo.GetTasksByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, dto.NewTaskResponse(task))
	}

	return &dto.TaskListResponse{
		Tasks:          responses,
		PaginationInfo: pagination,
	}, nil
}

// UpdateTask applies a partial update to one of the user's tasks.
// Only the fields present in the request are written.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, userID int64, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	if _, err := s.getOwnedTask(ctx, taskID, userID); err != nil {
		return nil, err
	}

	columns := make(map[string]interface{})
	if req.TaskName != nil {
		columns["task_name"] = *req.TaskName
	}
	if req.Description != nil {
		columns["description"] = *req.Description
	}
	if req.Category != nil {
		columns["category"] = *req.Category
	}
	if req.PriorityLevel != nil {
		if !validation.IsValidPriority(*req.PriorityLevel) {
			return nil, apperrors.ErrInvalidPriority
		}
		columns["priority_level"] = *req.PriorityLevel
	}
	if req.DeadLine != nil {
		columns["dead_line"] = *req.DeadLine
	}
	if req.IsFinished != nil {
		columns["is_finished"] = *req.IsFinished
	}

	if len(columns) == 0 {
		return s.GetTask(ctx, taskID, userID)
	}

	if err := s.taskRepo.UpdateTaskColumns(ctx, taskID, columns); err != nil {
		return nil, err
	}

	return s.GetTask(ctx, taskID, userID)
}

// DeleteTask removes one of the user's tasks along with its attachments
func (s *TaskService) DeleteTask(ctx context.Context, taskID, userID int64) error {
	if _, err := s.getOwnedTask(ctx, taskID, userID); err != nil {
		return err
	}

	attachments, err := s.fileRepo.GetFilesByTask(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	for _, file := range attachments {
		if err := s.storage.DeleteFile(file.FileURL); err != nil {
			s.logger.Warn().Err(err).Int64("fileID", file.ID).Msg("Failed to remove attachment from storage")
		}
		if err := s.fileRepo.DeleteFile(ctx, file.ID); err != nil {
			s.logger.Warn().Err(err).Int64("fileID", file.ID).Msg("Failed to remove attachment record")
		}
	}

	s.logger.Info().Int64("userID", userID).Int64("taskID", taskID).Msg("Task deleted")
	return nil
}

// AttachFile stores an uploaded file under the user's task prefix and links it
func (s *TaskService) AttachFile(ctx context.Context, taskID, userID int64, fileHeader *multipart.FileHeader) (*dto.FileResponse, error) {
	if _, err := s.getOwnedTask(ctx, taskID, userID); err != nil {
		return nil, err
	}

	subPath := fmt.Sprintf("users/%d/tasks/%d", userID, taskID)
	fileURL, err := s.storage.SaveFileWithPath(fileHeader, subPath)
	if err != nil {
		return nil, err
	}

	file := &models.File{
		FileName:   fileHeader.Filename,
		FilePath:   s.storage.GetFullPath(fileURL),
		FileURL:    fileURL,
		FileSize:   fileHeader.Size,
		FileType:   fileHeader.Header.Get("Content-Type"),
		UploadedBy: userID,
	}

	fileID, err := s.fileRepo.CreateFile(ctx, file)
	if err != nil {
		_ = s.storage.DeleteFile(fileURL)
		return nil, err
	}
	file.ID = fileID

	if err := s.fileRepo.AddTaskFile(ctx, taskID, fileID); err != nil {
		_ = s.storage.DeleteFile(fileURL)
		_ = s.fileRepo.DeleteFile(ctx, fileID)
		return nil, err
	}

	resp := dto.NewFileResponse(file)
	return &resp, nil
}

// RemoveFile detaches and deletes one of the task's attachments
func (s *TaskService) RemoveFile(ctx context.Context, taskID, fileID, userID int64) error {
	if _, err := s.getOwnedTask(ctx, taskID, userID); err != nil {
		return err
	}

	file, err := s.fileRepo.GetFileByID(ctx, fileID)
	if err != nil {
		return err
	}

	if err := s.fileRepo.DeleteFile(ctx, fileID); err != nil {
		return err
	}
	if err := s.storage.DeleteFile(file.FileURL); err != nil {
		s.logger.Warn().Err(err).Int64("fileID", fileID).Msg("Failed to remove attachment from storage")
	}

	return nil
}

// getOwnedTask loads a task and verifies it belongs to the user
func (s *TaskService) getOwnedTask(ctx context.Context, taskID, userID int64) (*models.Task, error) {
	task, err := s.taskRepo.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		// Don't reveal that the task exists
		return nil, apperrors.ErrTaskNotFound
	}
	return task, nil
}
