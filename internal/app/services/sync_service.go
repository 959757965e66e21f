package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/yigit/taskroom/internal/app/models"
	"github.com/yigit/taskroom/internal/app/models/dto"
	"github.com/yigit/taskroom/internal/app/repositories"
	"github.com/yigit/taskroom/internal/db"
	"github.com/yigit/taskroom/internal/pkg/apperrors"
	"github.com/yigit/taskroom/internal/pkg/helpers"
	"github.com/yigit/taskroom/internal/pkg/syncguard"
)

// SyncService reconciles a user's personal task copies against the canonical
// tasks of the classrooms they belong to.
//
// Copies carry no foreign key to their classroom, so membership changes and
// classroom deletions leave them dangling on purpose. Sync is the single
// place where those copies are created, updated and removed.
type SyncService struct {
	database          *db.PostgresDB
	classroomRepo     *repositories.ClassroomRepository
	classroomTaskRepo *repositories.ClassroomTaskRepository
	taskRepo          *repositories.TaskRepository
	guard             *syncguard.Guard
	logger            zerolog.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(
	database *db.PostgresDB,
	classroomRepo *repositories.ClassroomRepository,
	classroomTaskRepo *repositories.ClassroomTaskRepository,
	taskRepo *repositories.TaskRepository,
	guard *syncguard.Guard,
	logger zerolog.Logger,
) *SyncService {
	return &SyncService{
		database:          database,
		classroomRepo:     classroomRepo,
		classroomTaskRepo: classroomTaskRepo,
		taskRepo:          taskRepo,
		guard:             guard,
		logger:            logger,
	}
}

// taskPatch is a partial update of a single task copy
type taskPatch struct {
	taskID  int64
	columns map[string]interface{}
}

// classroomDiff is the set of changes that brings one classroom's copies in
// line with its canonical tasks
type classroomDiff struct {
	toAdd    []*models.ClassroomTask
	toUpdate []taskPatch
	toDelete []int64
}

func (d classroomDiff) empty() bool {
	return len(d.toAdd) == 0 && len(d.toUpdate) == 0 && len(d.toDelete) == 0
}

// computeClassroomDiff compares canonical classroom tasks against a user's
// copies for that classroom.
//
// Canonical fields (name, description, deadline, category) flow into the
// copy; user-owned fields (priority, completion) are never touched. Only
// columns that actually differ appear in a patch, so an unchanged classroom
// produces an empty diff and sync stays idempotent.
func computeClassroomDiff(canonical []*models.ClassroomTask, copies []*models.Task) classroomDiff {
	var diff classroomDiff

	copyByOrigin := make(map[int64]*models.Task, len(copies))
	for _, c := range copies {
		if c.ClassroomTaskID != nil {
			copyByOrigin[*c.ClassroomTaskID] = c
		} else {
			// A copy without a back-reference is unrecoverable
			diff.toDelete = append(diff.toDelete, c.ID)
		}
	}

	seen := make(map[int64]bool, len(canonical))
	for _, source := range canonical {
		seen[source.ID] = true

		existing, ok := copyByOrigin[source.ID]
		if !ok {
			diff.toAdd = append(diff.toAdd, source)
			continue
		}

		columns := make(map[string]interface{})
		if existing.TaskName != source.TaskName {
			columns["task_name"] = source.TaskName
		}
		if existing.Description != source.Description {
			columns["description"] = source.Description
		}
		if existing.Category != source.Category {
			columns["category"] = source.Category
		}
		if !helpers.SameTimePtr(existing.DeadLine, source.DeadLine) {
			columns["dead_line"] = source.DeadLine
		}
		if len(columns) > 0 {
			diff.toUpdate = append(diff.toUpdate, taskPatch{taskID: existing.ID, columns: columns})
		}
	}

	for originID, c := range copyByOrigin {
		if !seen[originID] {
			diff.toDelete = append(diff.toDelete, c.ID)
		}
	}

	return diff
}

// SyncUserTasks runs a full reconciliation for one user.
//
// Only one sync may run per user at a time; a concurrent attempt fails with
// ErrSyncInProgress instead of queueing. Each classroom is reconciled in its
// own transaction, so a failure in one classroom does not roll back the
// others.
func (s *SyncService) SyncUserTasks(ctx context.Context, userID int64) (*dto.SyncStatsResponse, error) {
	acquired, err := s.guard.TryLock(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, apperrors.ErrSyncInProgress
	}
	defer func() {
		if err := s.guard.Unlock(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to release sync lock")
		}
	}()

	joinedIDs, err := s.classroomRepo.GetJoinedClassroomIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	joined := make(map[int64]bool, len(joinedIDs))
	for _, id := range joinedIDs {
		joined[id] = true
	}

	copies, err := s.taskRepo.GetClassroomCopies(ctx, userID)
	if err != nil {
		return nil, err
	}

	copiesByClassroom := make(map[int64][]*models.Task)
	for _, c := range copies {
		copiesByClassroom[*c.ClassroomID] = append(copiesByClassroom[*c.ClassroomID], c)
	}

	stats := &dto.SyncStatsResponse{}

	// Copies pointing at classrooms the user left, or that no longer
	// exist, are purged wholesale.
	for classroomID, orphaned := range copiesByClassroom {
		if joined[classroomID] {
			continue
		}

		ids := make([]int64, 0, len(orphaned))
		for _, c := range orphaned {
			ids = append(ids, c.ID)
		}

		err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			deleted, err := s.taskRepo.DeleteTasksTx(ctx, tx, ids)
			if err != nil {
				return err
			}
			stats.TasksDeleted += int(deleted)
			return nil
		})
		if err != nil {
			return nil, err
		}

		stats.ClassroomsRemoved++
		s.logger.Info().Int64("userID", userID).Int64("classroomID", classroomID).Int("copies", len(ids)).Msg("Purged copies of removed classroom")
	}

	// Reconcile each joined classroom against its canonical tasks
	for _, classroomID := range joinedIDs {
		canonical, err := s.classroomTaskRepo.GetTasksByClassroom(ctx, classroomID)
		if err != nil {
			return nil, err
		}

		diff := computeClassroomDiff(canonical, copiesByClassroom[classroomID])
		if diff.empty() {
			continue
		}

		err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			for _, source := range diff.toAdd {
				classroomID := source.ClassroomID
				originID := source.ID
				task := &models.Task{
					UserID:          userID,
					TaskName:        source.TaskName,
					Description:     source.Description,
					Category:        source.Category,
					PriorityLevel:   models.PriorityDefault,
					DeadLine:        source.DeadLine,
					ClassroomID:     &classroomID,
					ClassroomTaskID: &originID,
				}
				if _, err := s.taskRepo.CreateTaskTx(ctx, tx, task); err != nil {
					return err
				}
			}

			for _, patch := range diff.toUpdate {
				if err := s.taskRepo.UpdateTaskColumnsTx(ctx, tx, patch.taskID, patch.columns); err != nil {
					return err
				}
			}

			if _, err := s.taskRepo.DeleteTasksTx(ctx, tx, diff.toDelete); err != nil {
				return err
			}

			return nil
		})
		if err != nil {
			return nil, err
		}

		stats.TasksAdded += len(diff.toAdd)
		stats.TasksUpdated += len(diff.toUpdate)
		stats.TasksDeleted += len(diff.toDelete)
	}

	stats.SyncedAt = time.Now().UTC()
	s.guard.RecordSync(ctx, userID, stats.SyncedAt)

	s.logger.Info().
		Int64("userID", userID).
		Int("classroomsRemoved", stats.ClassroomsRemoved).
		Int("tasksAdded", stats.TasksAdded).
		Int("tasksUpdated", stats.TasksUpdated).
		Int("tasksDeleted", stats.TasksDeleted).
		Msg("Task sync completed")

	return stats, nil
}

// LastSync reports when the user's last successful sync finished
func (s *SyncService) LastSync(ctx context.Context, userID int64) (time.Time, error) {
	return s.guard.LastSync(ctx, userID)
}
