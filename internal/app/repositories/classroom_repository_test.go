package repositories

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddStudentQuery_RepeatJoinIsNoOp(t *testing.T) {
	sb := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	sql, args, err := addStudentQuery(sb, 42, 7)
	require.NoError(t, err)

	// Membership is a set: inserting an existing pair must not error and
	// must not duplicate the row.
	assert.Contains(t, sql, "INSERT INTO classroom_students")
	assert.Contains(t, sql, "ON CONFLICT (classroom_id, user_id) DO NOTHING")
	assert.Equal(t, []interface{}{int64(42), int64(7)}, args)
}
