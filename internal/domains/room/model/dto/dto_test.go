package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeep/internal/domains/room/model/dto"
	"innkeep/shared/validator"
)

func TestUpdateRoomRequest_StatusValidation(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		wantErr bool
	}{
		{name: "empty status is allowed", status: "", wantErr: false},
		{name: "available is allowed", status: "available", wantErr: false},
		{name: "maintenance is allowed", status: "maintenance", wantErr: false},
		{name: "occupied is owned by the check-in flow", status: "occupied", wantErr: true},
		{name: "blocked is owned by the block flow", status: "blocked", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.UpdateRoomRequest{Status: tt.status}

			err := validator.ValidateStruct(&req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
