package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/taskroom/internal/app/models"
)

func canonicalTask(id int64, name string) *models.ClassroomTask {
	return &models.ClassroomTask{
		ID:          id,
		ClassroomID: 10,
		TaskName:    name,
		Description: "read chapter 4",
		Category:    "homework",
	}
}

func copyOf(source *models.ClassroomTask, taskID int64) *models.Task {
	originID := source.ID
	classroomID := source.ClassroomID
	return &models.Task{
		ID:              taskID,
		UserID:          1,
		TaskName:        source.TaskName,
		Description:     source.Description,
		Category:        source.Category,
		PriorityLevel:   models.PriorityDefault,
		DeadLine:        source.DeadLine,
		ClassroomID:     &classroomID,
		ClassroomTaskID: &originID,
	}
}

func TestComputeClassroomDiff_UnchangedIsEmpty(t *testing.T) {
	source := canonicalTask(100, "Essay")
	diff := computeClassroomDiff(
		[]*models.ClassroomTask{source},
		[]*models.Task{copyOf(source, 5)},
	)

	assert.True(t, diff.empty())
}

func TestComputeClassroomDiff_NewCanonicalTaskIsAdded(t *testing.T) {
	existing := canonicalTask(100, "Essay")
	added := canonicalTask(101, "Quiz prep")

	diff := computeClassroomDiff(
		[]*models.ClassroomTask{existing, added},
		[]*models.Task{copyOf(existing, 5)},
	)

	require.Len(t, diff.toAdd, 1)
	assert.Equal(t, int64(101), diff.toAdd[0].ID)
	assert.Empty(t, diff.toUpdate)
	assert.Empty(t, diff.toDelete)
}

func TestComputeClassroomDiff_RenamePatchesOnlyChangedColumn(t *testing.T) {
	source := canonicalTask(100, "Essay")
	existing := copyOf(source, 5)
	source.TaskName = "Essay (revised)"

	// The student's own edits must survive the patch
	existing.PriorityLevel = 1
	existing.IsFinished = true

	diff := computeClassroomDiff(
		[]*models.ClassroomTask{source},
		[]*models.Task{existing},
	)

	require.Len(t, diff.toUpdate, 1)
	patch := diff.toUpdate[0]
	assert.Equal(t, int64(5), patch.taskID)
	require.Len(t, patch.columns, 1)
	assert.Equal(t, "Essay (revised)", patch.columns["task_name"])
	assert.NotContains(t, patch.columns, "priority_level")
	assert.NotContains(t, patch.columns, "is_finished")
}

func TestComputeClassroomDiff_DeadlineChangeDetected(t *testing.T) {
	source := canonicalTask(100, "Essay")
	existing := copyOf(source, 5)

	deadline := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	source.DeadLine = &deadline

	diff := computeClassroomDiff(
		[]*models.ClassroomTask{source},
		[]*models.Task{existing},
	)

	require.Len(t, diff.toUpdate, 1)
	require.Len(t, diff.toUpdate[0].columns, 1)
	assert.Equal(t, &deadline, diff.toUpdate[0].columns["dead_line"])
}

func TestComputeClassroomDiff_RemovedCanonicalTaskDeletesCopy(t *testing.T) {
	existing := canonicalTask(100, "Essay")
	removed := canonicalTask(101, "Quiz prep")

	diff := computeClassroomDiff(
		[]*models.ClassroomTask{existing},
		[]*models.Task{copyOf(existing, 5), copyOf(removed, 6)},
	)

	assert.Empty(t, diff.toAdd)
	assert.Empty(t, diff.toUpdate)
	assert.Equal(t, []int64{6}, diff.toDelete)
}

func TestComputeClassroomDiff_CopyWithoutBackReferenceIsDeleted(t *testing.T) {
	source := canonicalTask(100, "Essay")
	classroomID := source.ClassroomID
	broken := &models.Task{
		ID:          7,
		UserID:      1,
		TaskName:    "Essay",
		ClassroomID: &classroomID,
	}

	diff := computeClassroomDiff(
		[]*models.ClassroomTask{source},
		[]*models.Task{copyOf(source, 5), broken},
	)

	assert.Equal(t, []int64{7}, diff.toDelete)
	assert.Empty(t, diff.toAdd)
	assert.Empty(t, diff.toUpdate)
}

func TestComputeClassroomDiff_EmptyClassroom(t *testing.T) {
	diff := computeClassroomDiff(nil, nil)
	assert.True(t, diff.empty())
}
