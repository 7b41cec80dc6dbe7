package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"fleetdash/backend/services/fleet-dashboard/internal/models"
)

func TestCreateVehicleRejectsUnknownStatus(t *testing.T) {
	repo := NewVehicleRepository(nil)

	for _, status := range []models.VehicleStatus{"", "PARKED", "active"} {
		err := repo.Create(context.Background(), &models.Vehicle{ID: "EV-9", Status: status})
		assert.ErrorIs(t, err, ErrInvalidVehicleStatus, string(status))
	}
}
