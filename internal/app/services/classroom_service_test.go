package services

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/taskroom/internal/app/models/dto"
	"github.com/yigit/taskroom/internal/pkg/apperrors"
)

func TestGenerateJoinCode_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateJoinCode()
		require.NoError(t, err)
		require.Len(t, code, joinCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(joinCodeAlphabet, r), "unexpected character %q in code %q", r, code)
		}
	}
}

func TestGenerateJoinCode_NotConstant(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateJoinCode()
		require.NoError(t, err)
		seen[code] = true
	}
	// 50 draws from a 36^6 space should essentially never repeat,
	// let alone all collapse to one value
	assert.Greater(t, len(seen), 1)
}

func TestJoinClassroom_MalformedCodeRejectedBeforeLookup(t *testing.T) {
	// A nil repository proves malformed codes never reach the database
	svc := &ClassroomService{logger: zerolog.Nop()}

	cases := []string{"", "ABC", "ABCDEFG", "abc!@#", "AB CD1"}
	for _, code := range cases {
		_, err := svc.JoinClassroom(context.Background(), 1, &dto.JoinClassroomRequest{Code: code})
		assert.ErrorIs(t, err, apperrors.ErrInvalidJoinCode, "code %q", code)
	}
}

func TestJoinClassroom_CodeIsNormalized(t *testing.T) {
	// Lowercase and padded input must pass format validation; the nil
	// repository then panics, proving the lookup was attempted with a
	// well-formed code rather than rejected up front.
	svc := &ClassroomService{logger: zerolog.Nop()}

	assert.Panics(t, func() {
		_, _ = svc.JoinClassroom(context.Background(), 1, &dto.JoinClassroomRequest{Code: "  abc123  "})
	})
}
