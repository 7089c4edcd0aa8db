package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vahango/rental-gateway/internal/models"
)

func strPtr(s string) *string { return &s }

func TestGroupKey(t *testing.T) {
	tests := []struct {
		name    string
		vehicle models.VehicleListing
		want    string
	}{
		{
			name:    "rental provider wins over user",
			vehicle: models.VehicleListing{Model: "Activa 6G", RentalID: strPtr("r1"), UserID: strPtr("u1")},
			want:    "activa 6g-rental-r1",
		},
		{
			name:    "user provider",
			vehicle: models.VehicleListing{Model: "Activa 6G", UserID: strPtr("u1")},
			want:    "activa 6g-user-u1",
		},
		{
			name:    "no provider ids",
			vehicle: models.VehicleListing{Model: "Activa 6G"},
			want:    "activa 6g-user-undefined",
		},
		{
			name:    "model normalized",
			vehicle: models.VehicleListing{Model: "  ACTIVA 6G ", UserID: strPtr("u1")},
			want:    "activa 6g-user-u1",
		},
		{
			name:    "missing model",
			vehicle: models.VehicleListing{UserID: strPtr("u1")},
			want:    "unknown-user-u1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GroupKey(tt.vehicle))
		})
	}
}

func TestGroupVehicles(t *testing.T) {
	vehicles := []models.VehicleListing{
		{ID: "v1", Model: "Activa 6G", UserID: strPtr("u1"), City: "Pune"},
		{ID: "v2", Model: "Swift", RentalID: strPtr("r1")},
		{ID: "v3", Model: "activa 6g", UserID: strPtr("u1")},
		{ID: "v4", Model: "Activa 6G", UserID: strPtr("u2")},
		{ID: "v5"},
	}

	groups := GroupVehicles(vehicles)
	require.Len(t, groups, 4)

	// Insertion order of first appearance is preserved
	assert.Equal(t, "activa 6g-user-u1", groups[0].Key)
	assert.Equal(t, "swift-rental-r1", groups[1].Key)
	assert.Equal(t, "activa 6g-user-u2", groups[2].Key)
	assert.Equal(t, "unknown-user-undefined", groups[3].Key)

	// Same model under the same provider collapses; representative is the
	// first listing seen
	assert.Equal(t, "v1", groups[0].Main.ID)
	assert.Equal(t, 2, groups[0].Count)
	require.Len(t, groups[0].Vehicles, 2)
	assert.Equal(t, "v3", groups[0].Vehicles[1].ID)

	// Same model under a different provider stays separate
	assert.Equal(t, 1, groups[2].Count)
}

func TestGroupVehicles_Empty(t *testing.T) {
	assert.Empty(t, GroupVehicles(nil))
	assert.Empty(t, GroupVehicles([]models.VehicleListing{}))
}

func TestFilterGroupsByTab(t *testing.T) {
	groups := GroupVehicles([]models.VehicleListing{
		{ID: "v1", Model: "Activa", Category: "2-wheeler", VehicleType: "scooty", UserID: strPtr("u1")},
		{ID: "v2", Model: "Splendor", VehicleType: "bike", UserID: strPtr("u2")},
		{ID: "v3", Model: "Vespa", Subcategory: "scooter", UserID: strPtr("u3")},
		{ID: "v4", Model: "Swift", Category: "4-wheeler", VehicleType: "car", UserID: strPtr("u4")},
	})

	tests := []struct {
		tab  string
		want []string
	}{
		{"all", []string{"v1", "v2", "v3"}},
		{"", []string{"v1", "v2", "v3"}},
		{"bikes", []string{"v2"}},
		{"bike", []string{"v2"}},
		{"scooty", []string{"v1", "v3"}},
		{"scooter", []string{"v1", "v3"}},
		{"car", []string{"v4"}},
		{"truck", nil},
	}

	for _, tt := range tests {
		t.Run("tab="+tt.tab, func(t *testing.T) {
			filtered := FilterGroupsByTab(groups, tt.tab)
			var ids []string
			for _, g := range filtered {
				ids = append(ids, g.Main.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterGroupsByTab_NormalizesListingFields(t *testing.T) {
	groups := GroupVehicles([]models.VehicleListing{
		{ID: "v1", Model: "Activa", Category: "2-Wheeler", UserID: strPtr("u1")},
		{ID: "v2", Model: "Splendor", VehicleType: " bike ", UserID: strPtr("u2")},
		{ID: "v3", Model: "Vespa", Subcategory: "SCOOTER", UserID: strPtr("u3")},
	})

	filtered := FilterGroupsByTab(groups, "all")
	var ids []string
	for _, g := range filtered {
		ids = append(ids, g.Main.ID)
	}
	assert.Equal(t, []string{"v1", "v2", "v3"}, ids)

	bikes := FilterGroupsByTab(groups, "bikes")
	require.Len(t, bikes, 1)
	assert.Equal(t, "v2", bikes[0].Main.ID)

	scooters := FilterGroupsByTab(groups, "scooty")
	require.Len(t, scooters, 1)
	assert.Equal(t, "v3", scooters[0].Main.ID)
}

func TestSearchGroups(t *testing.T) {
	biz := "Sharma Rentals"
	groups := GroupVehicles([]models.VehicleListing{
		{ID: "v1", Model: "Activa 6G", City: "Pune", UserID: strPtr("u1")},
		{ID: "v2", Model: "Swift Dzire", City: "Mumbai", RentalID: strPtr("r1"), BusinessName: &biz},
	})

	tests := []struct {
		query string
		want  int
	}{
		{"activa", 1},
		{"ACTIVA", 1},
		{"mumbai", 1},
		{"sharma", 1},
		{"", 2},
		{"  ", 2},
		{"tesla", 0},
	}

	for _, tt := range tests {
		t.Run("query="+tt.query, func(t *testing.T) {
			assert.Len(t, SearchGroups(groups, tt.query), tt.want)
		})
	}
}
