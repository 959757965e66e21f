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
)

// ClassroomTaskService handles canonical classroom assignments and their
// attachments. Student copies are produced by the sync routine, never here.
type ClassroomTaskService struct {
	classroomRepo     *repositories.ClassroomRepository
	classroomTaskRepo *repositories.ClassroomTaskRepository
	fileRepo          *repositories.FileRepository
	storage           filestorage.FileStorage
	logger            zerolog.Logger
}

// NewClassroomTaskService creates a new ClassroomTaskService
func NewClassroomTaskService(
	classroomRepo *repositories.ClassroomRepository,
	classroomTaskRepo *repositories.ClassroomTaskRepository,
	fileRepo *repositories.FileRepository,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *ClassroomTaskService {
	return &ClassroomTaskService{
		classroomRepo:     classroomRepo,
		classroomTaskRepo: classroomTaskRepo,
		fileRepo:          fileRepo,
		storage:           storage,
		logger:            logger,
	}
}

// CreateTask creates a canonical assignment in a classroom. Only the owning
// teacher may create one.
func (s *ClassroomTaskService) CreateTask(ctx context.Context, classroomID, requesterID int64, req *dto.ClassroomTaskRequest) (*dto.ClassroomTaskResponse, error) {
	if err := s.requireOwner(ctx, classroomID, requesterID); err != nil {
		return nil, err
	}

	task := &models.ClassroomTask{
		ClassroomID: classroomID,
		TaskName:    req.TaskName,
		Description: req.Description,
		DeadLine:    req.DeadLine,
		Category:    req.Category,
		CreatedBy:   requesterID,
	}

	id, err := s.classroomTaskRepo.CreateClassroomTask(ctx, task)
	if err != nil {
		return nil, err
	}
	task.ID = id

	s.logger.Info().Int64("classroomID", classroomID).Int64("taskID", id).Msg("Classroom task created")

	resp := dto.NewClassroomTaskResponse(task)
	return &resp, nil
}

// GetTask retrieves a single assignment with its attachments. Visible to
// the owner and enrolled students.
func (s *ClassroomTaskService) GetTask(ctx context.Context, taskID, requesterID int64) (*dto.ClassroomTaskResponse, error) {
	task, err := s.classroomTaskRepo.GetClassroomTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.requireVisibility(ctx, task.ClassroomID, requesterID); err != nil {
		return nil, err
	}

	files, err := s.fileRepo.GetFilesByClassroomTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.Files = files

	resp := dto.NewClassroomTaskResponse(task)
	return &resp, nil
}

// ListTasks retrieves all assignments of a classroom with attachments
func (s *ClassroomTaskService) ListTasks(ctx context.Context, classroomID, requesterID int64) ([]dto.ClassroomTaskResponse, error) {
	if err := s.requireVisibility(ctx, classroomID, requesterID); err != nil {
		return nil, err
	}

	tasks, err := s.classroomTaskRepo.GetTasksByClassroom(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ClassroomTaskResponse, 0, len(tasks))
	for _, task := range tasks {
		files, err := s.fileRepo.GetFilesByClassroomTask(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		task.Files = files
		responses = append(responses, dto.NewClassroomTaskResponse(task))
	}

	return responses, nil
}

// UpdateTask replaces the mutable fields of an assignment. Students pick up
// the change on their next sync.
func (s *ClassroomTaskService) UpdateTask(ctx context.Context, taskID, requesterID int64, req *dto.ClassroomTaskRequest) (*dto.ClassroomTaskResponse, error) {
	task, err := s.classroomTaskRepo.GetClassroomTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwner(ctx, task.ClassroomID, requesterID); err != nil {
		return nil, err
	}

	task.TaskName = req.TaskName
	task.Description = req.Description
	task.DeadLine = req.DeadLine
	task.Category = req.Category

	if err := s.classroomTaskRepo.UpdateClassroomTask(ctx, task); err != nil {
		return nil, err
	}

	return s.GetTask(ctx, taskID, requesterID)
}

// DeleteTask removes an assignment and its stored attachments
func (s *ClassroomTaskService) DeleteTask(ctx context.Context, taskID, requesterID int64) error {
	task, err := s.classroomTaskRepo.GetClassroomTaskByID(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.requireOwner(ctx, task.ClassroomID, requesterID); err != nil {
		return err
	}

	files, err := s.fileRepo.GetFilesByClassroomTask(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.classroomTaskRepo.DeleteClassroomTask(ctx, taskID); err != nil {
		return err
	}

	// Attachments are best-effort: the task row is already gone, a stale
	// file on disk is preferable to a failed delete
	for _, file := range files {
		if err := s.storage.DeleteFile(file.FileURL); err != nil {
			s.logger.Warn().Err(err).Int64("fileID", file.ID).Msg("Failed to remove attachment from storage")
		}
		if err := s.fileRepo.DeleteFile(ctx, file.ID); err != nil {
			s.logger.Warn().Err(err).Int64("fileID", file.ID).Msg("Failed to remove attachment record")
		}
	}

	s.logger.Info().Int64("taskID", taskID).Msg("Classroom task deleted")
	return nil
}

// AttachFile stores an uploaded file under the task's storage prefix and
// links it to the assignment
func (s *ClassroomTaskService) AttachFile(ctx context.Context, taskID, requesterID int64, fileHeader *multipart.FileHeader) (*dto.FileResponse, error) {
	task, err := s.classroomTaskRepo.GetClassroomTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOwner(ctx, task.ClassroomID, requesterID); err != nil {
		return nil, err
	}

	subPath := fmt.Sprintf("classrooms/%d/tasks/%d", task.ClassroomID, taskID)
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
		UploadedBy: requesterID,
	}

	fileID, err := s.fileRepo.CreateFile(ctx, file)
	if err != nil {
		// Roll back the stored file so it doesn't leak
		_ = s.storage.DeleteFile(fileURL)
		return nil, err
	}
	file.ID = fileID

	if err := s.fileRepo.AddClassroomTaskFile(ctx, taskID, fileID); err != nil {
		_ = s.storage.DeleteFile(fileURL)
		_ = s.fileRepo.DeleteFile(ctx, fileID)
		return nil, err
	}

	s.logger.Info().Int64("taskID", taskID).Int64("fileID", fileID).Str("fileName", file.FileName).Msg("Attachment added to classroom task")

	resp := dto.NewFileResponse(file)
	return &resp, nil
}

// RemoveFile detaches and deletes an attachment
func (s *ClassroomTaskService) RemoveFile(ctx context.Context, taskID, fileID, requesterID int64) error {
	task, err := s.classroomTaskRepo.GetClassroomTaskByID(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.requireOwner(ctx, task.ClassroomID, requesterID); err != nil {
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

func (s *ClassroomTaskService) requireOwner(ctx context.Context, classroomID, requesterID int64) error {
	classroom, err := s.classroomRepo.GetClassroomByID(ctx, classroomID)
	if err != nil {
		return err
	}
	if classroom.TeacherID != requesterID {
		return apperrors.ErrNotClassroomOwner
	}
	return nil
}

func (s *ClassroomTaskService) requireVisibility(ctx context.Context, classroomID, requesterID int64) error {
	classroom, err := s.classroomRepo.GetClassroomByID(ctx, classroomID)
	if err != nil {
		return err
	}
	if classroom.TeacherID == requesterID {
		return nil
	}
	member, err := s.classroomRepo.IsMember(ctx, classroomID, requesterID)
	if err != nil {
		return err
	}
	if !member {
		return apperrors.ErrNotClassroomMember
	}
	return nil
}
