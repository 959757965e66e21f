package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yigit/taskroom/internal/pkg/apperrors"
)

func TestValidatePassword(t *testing.T) {
	svc := &AuthService{}

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "Secret123", wantErr: false},
		{name: "empty", password: "", wantErr: true},
		{name: "too short", password: "Ab1", wantErr: true},
		{name: "no digit", password: "OnlyLetters", wantErr: true},
		{name: "no letter", password: "12345678", wantErr: true},
		{name: "long enough with both", password: "p4ssword", wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.validatePassword(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
