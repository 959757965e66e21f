package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/taskroom/internal/app/models"
	"github.com/yigit/taskroom/internal/app/models/dto"
	"github.com/yigit/taskroom/internal/app/repositories"
	"github.com/yigit/taskroom/internal/pkg/apperrors"
	"github.com/yigit/taskroom/internal/pkg/validation"
)

const (
	joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	joinCodeLength   = 6

	// How many fresh codes to try before giving up. With 36^6 possible
	// codes collisions are rare, retries cover the unlucky case.
	joinCodeMaxAttempts = 5
)

// ClassroomService handles classroom lifecycle and membership
type ClassroomService struct {
	classroomRepo *repositories.ClassroomRepository
	userRepo      *repositories.UserRepository
	taskRepo      *repositories.TaskRepository
	logger        zerolog.Logger
}

// NewClassroomService creates a new ClassroomService
func NewClassroomService(
	classroomRepo *repositories.ClassroomRepository,
	userRepo *repositories.UserRepository,
	taskRepo *repositories.TaskRepository,
	logger zerolog.Logger,
) *ClassroomService {
	return &ClassroomService{
		classroomRepo: classroomRepo,
		userRepo:      userRepo,
		taskRepo:      taskRepo,
		logger:        logger,
	}
}

// GenerateJoinCode produces a random 6-character uppercase code
func GenerateJoinCode() (string, error) {
	code := make([]byte, joinCodeLength)
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate join code: %w", err)
		}
		code[i] = joinCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// CreateClassroom creates a classroom owned by the given teacher.
// A unique join code is generated, retrying on the rare collision.
func (s *ClassroomService) CreateClassroom(ctx context.Context, teacherID int64, req *dto.CreateClassroomRequest) (*dto.ClassroomResponse, error) {
	teacher, err := s.userRepo.GetUserByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if teacher.Role != models.RoleTeacher {
		return nil, apperrors.ErrPermissionDenied
	}

	var classroom *models.Classroom
	for attempt := 0; attempt < joinCodeMaxAttempts; attempt++ {
		code, err := GenerateJoinCode()
		if err != nil {
			return nil, err
		}

		candidate := &models.Classroom{
			Name:      req.Name,
			Code:      code,
			TeacherID: teacherID,
		}

		id, err := s.classroomRepo.CreateClassroom(ctx, candidate)
		if err == nil {
			candidate.ID = id
			classroom = candidate
			break
		}
		if !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return nil, err
		}
		s.logger.Warn().Str("code", code).Msg("Join code collision, retrying")
	}
	if classroom == nil {
		return nil, fmt.Errorf("could not generate a unique join code after %d attempts", joinCodeMaxAttempts)
	}

	s.logger.Info().Int64("classroomID", classroom.ID).Int64("teacherID", teacherID).Msg("Classroom created")

	resp := s.toResponse(classroom, teacherID, 0)
	resp.TeacherName = teacher.DisplayName
	return &resp, nil
}

// GetClassroom retrieves a classroom the requester can see.
// The join code is only included for the owning teacher.
func (s *ClassroomService) GetClassroom(ctx context.Context, classroomID, requesterID int64) (*dto.ClassroomResponse, error) {
	classroom, err := s.classroomRepo.GetClassroomByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	if classroom.TeacherID != requesterID {
		member, err := s.classroomRepo.IsMember(ctx, classroomID, requesterID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, apperrors.ErrNotClassroomMember
		}
	}

	studentIDs, err := s.classroomRepo.GetStudentIDs(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(classroom, requesterID, len(studentIDs))

	if teacher, err := s.userRepo.GetUserByID(ctx, classroom.TeacherID); err == nil {
		resp.TeacherName = teacher.DisplayName
	}

	return &resp, nil
}

// ListOwnedClassrooms retrieves the classrooms a teacher owns
func (s *ClassroomService) ListOwnedClassrooms(ctx context.Context, teacherID int64) ([]dto.ClassroomResponse, error) {
	classrooms, err := s.classroomRepo.GetClassroomsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return s.toResponses(ctx, classrooms, teacherID)
}

// ListJoinedClassrooms retrieves the classrooms a student has joined
func (s *ClassroomService) ListJoinedClassrooms(ctx context.Context, studentID int64) ([]dto.ClassroomResponse, error) {
	classrooms, err := s.classroomRepo.GetClassroomsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return s.toResponses(ctx, classrooms, studentID)
}

func (s *ClassroomService) toResponses(ctx context.Context, classrooms []*models.Classroom, requesterID int64) ([]dto.ClassroomResponse, error) {
	responses := make([]dto.ClassroomResponse, 0, len(classrooms))
	for _, classroom := range classrooms {
		studentIDs, err := s.classroomRepo.GetStudentIDs(ctx, classroom.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, s.toResponse(classroom, requesterID, len(studentIDs)))
	}
	return responses, nil
}

// UpdateClassroom renames a classroom. Only the owner may do this.
func (s *ClassroomService) UpdateClassroom(ctx context.Context, classroomID, requesterID int64, req *dto.UpdateClassroomRequest) (*dto.ClassroomResponse, error) {
	classroom, err := s.getOwnedClassroom(ctx, classroomID, requesterID)
	if err != nil {
		return nil, err
	}

	classroom.Name = req.Name
	if err := s.classroomRepo.UpdateClassroom(ctx, classroom); err != nil {
		return nil, err
	}

	return s.GetClassroom(ctx, classroomID, requesterID)
}

// RegenerateJoinCode replaces a classroom's join code with a fresh one.
// The old code stops working immediately; existing members are unaffected.
func (s *ClassroomService) RegenerateJoinCode(ctx context.Context, classroomID, requesterID int64) (*dto.ClassroomResponse, error) {
	if _, err := s.getOwnedClassroom(ctx, classroomID, requesterID); err != nil {
		return nil, err
	}

	updated := false
	for attempt := 0; attempt < joinCodeMaxAttempts; attempt++ {
		code, err := GenerateJoinCode()
		if err != nil {
			return nil, err
		}

		err = s.classroomRepo.UpdateClassroomCode(ctx, classroomID, code)
		if err == nil {
			updated = true
			break
		}
		if !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			return nil, err
		}
		s.logger.Warn().Str("code", code).Msg("Join code collision, retrying")
	}
	if !updated {
		return nil, fmt.Errorf("could not generate a unique join code after %d attempts", joinCodeMaxAttempts)
	}

	s.logger.Info().Int64("classroomID", classroomID).Msg("Join code regenerated")

	return s.GetClassroom(ctx, classroomID, requesterID)
}

// DeleteClassroom removes a classroom and its canonical tasks. Student task
// copies survive until each student's next sync picks up the removal.
func (s *ClassroomService) DeleteClassroom(ctx context.Context, classroomID, requesterID int64) error {
	if _, err := s.getOwnedClassroom(ctx, classroomID, requesterID); err != nil {
		return err
	}

	if err := s.classroomRepo.DeleteClassroom(ctx, classroomID); err != nil {
		return err
	}

	s.logger.Info().Int64("classroomID", classroomID).Msg("Classroom deleted")
	return nil
}

// JoinClassroom enrolls a user in the classroom matching the code. Joining
// twice is a no-op that returns the classroom again; the owner cannot join
// at all.
func (s *ClassroomService) JoinClassroom(ctx context.Context, userID int64, req *dto.JoinClassroomRequest) (*dto.ClassroomResponse, error) {
	// Codes are issued uppercase; accept lowercase input but reject
	// anything that could never have been issued without a DB round trip.
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !validation.IsValidJoinCode(code) {
		return nil, apperrors.ErrInvalidJoinCode
	}

	classroom, err := s.classroomRepo.GetClassroomByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if classroom.TeacherID == userID {
		return nil, apperrors.ErrOwnClassroomJoin
	}

	added, err := s.classroomRepo.AddStudent(ctx, classroom.ID, userID)
	if err != nil {
		return nil, err
	}
	if added {
		s.logger.Info().Int64("classroomID", classroom.ID).Int64("userID", userID).Msg("Student joined classroom")
	}

	return s.GetClassroom(ctx, classroom.ID, userID)
}

// LeaveClassroom removes a student's membership and their task copies for
// that classroom. The next sync would remove surviving copies anyway, so a
// failed copy deletion is logged rather than surfaced.
func (s *ClassroomService) LeaveClassroom(ctx context.Context, classroomID, userID int64) error {
	if err := s.classroomRepo.RemoveStudent(ctx, classroomID, userID); err != nil {
		return err
	}

	deleted, err := s.taskRepo.DeleteClassroomCopies(ctx, userID, classroomID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("classroomID", classroomID).Int64("userID", userID).Msg("Failed to delete task copies on leave")
	}

	s.logger.Info().Int64("classroomID", classroomID).Int64("userID", userID).Int64("copiesDeleted", deleted).Msg("Student left classroom")
	return nil
}

// ListStudents retrieves the members of a classroom. Only the owner may
// see the roster.
func (s *ClassroomService) ListStudents(ctx context.Context, classroomID, requesterID int64) ([]dto.ClassroomStudentResponse, error) {
	if _, err := s.getOwnedClassroom(ctx, classroomID, requesterID); err != nil {
		return nil, err
	}

	members, err := s.classroomRepo.GetStudents(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ClassroomStudentResponse, 0, len(members))
	for _, member := range members {
		resp := dto.ClassroomStudentResponse{
			UserID:      member.UserID,
			DisplayName: member.DisplayName,
			Email:       member.Email,
			JoinedAt:    member.JoinedAt,
		}
		if member.PhotoURL != nil {
			resp.PhotoURL = *member.PhotoURL
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

// RemoveStudent lets the owner remove a student from the classroom
func (s *ClassroomService) RemoveStudent(ctx context.Context, classroomID, requesterID, studentID int64) error {
	if _, err := s.getOwnedClassroom(ctx, classroomID, requesterID); err != nil {
		return err
	}

	if err := s.classroomRepo.RemoveStudent(ctx, classroomID, studentID); err != nil {
		return err
	}

	// The removed student's copies are cleaned up immediately, matching
	// the leave path. Surviving copies fall to their next sync.
	if _, err := s.taskRepo.DeleteClassroomCopies(ctx, studentID, classroomID); err != nil {
		s.logger.Warn().Err(err).Int64("classroomID", classroomID).Int64("studentID", studentID).Msg("Failed to delete task copies on removal")
	}

	s.logger.Info().Int64("classroomID", classroomID).Int64("studentID", studentID).Msg("Student removed from classroom")
	return nil
}

// getOwnedClassroom loads a classroom and verifies the requester owns it
func (s *ClassroomService) getOwnedClassroom(ctx context.Context, classroomID, requesterID int64) (*models.Classroom, error) {
	classroom, err := s.classroomRepo.GetClassroomByID(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if classroom.TeacherID != requesterID {
		return nil, apperrors.ErrNotClassroomOwner
	}
	return classroom, nil
}

func (s *ClassroomService) toResponse(classroom *models.Classroom, requesterID int64, studentCount int) dto.ClassroomResponse {
	resp := dto.ClassroomResponse{
		ID:           classroom.ID,
		Name:         classroom.Name,
		TeacherID:    classroom.TeacherID,
		StudentCount: studentCount,
		CreatedAt:    classroom.CreatedAt,
	}
	if classroom.TeacherID == requesterID {
		resp.Code = classroom.Code
	}
	return resp
}
