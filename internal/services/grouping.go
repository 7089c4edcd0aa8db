package services

import (
	"strings"

	"github.com/vahango/rental-gateway/internal/models"
)

// Category tab names accepted by the catalog endpoints
const (
	TabAll    = "all"
	TabBikes  = "bikes"
	TabScooty = "scooty"
)

var (
	bikeTypes    = map[string]bool{"bike": true}
	scooterTypes = map[string]bool{"scooty": true, "scooter": true}
)

// normalizeField lowercases and trims a listing field before matching.
// Listings arrive with inconsistent casing and stray whitespace.
func normalizeField(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeModel normalizes a model name for grouping. Listings without a
// model still group, under "unknown".
func normalizeModel(model string) string {
	normalized := normalizeField(model)
	if normalized == "" {
		return "unknown"
	}
	return normalized
}

// providerKey identifies who offers a listing. Rental businesses take
// precedence over individual owners; listings with neither id share the
// "user-undefined" bucket rather than being dropped.
func providerKey(v models.VehicleListing) string {
	if v.RentalID != nil && *v.RentalID != "" {
		return "rental-" + *v.RentalID
	}
	if v.UserID != nil && *v.UserID != "" {
		return "user-" + *v.UserID
	}
	return "user-undefined"
}

// GroupKey returns the grouping key for a listing
func GroupKey(v models.VehicleListing) string {
	return normalizeModel(v.Model) + "-" + providerKey(v)
}

// GroupVehicles buckets listings by model and provider. The first listing
// seen for a key becomes the group's representative, and groups come back
// in order of first appearance.
func GroupVehicles(vehicles []models.VehicleListing) []models.VehicleGroup {
	var groups []models.VehicleGroup
	index := make(map[string]int)

	for _, v := range vehicles {
		key := GroupKey(v)
		if i, ok := index[key]; ok {
			groups[i].Vehicles = append(groups[i].Vehicles, v)
			groups[i].Count++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, models.VehicleGroup{
			Key:      key,
			Main:     v,
			Vehicles: []models.VehicleListing{v},
			Count:    1,
		})
	}

	return groups
}

// isTwoWheeler reports whether a listing belongs on the two-wheeler tabs
func isTwoWheeler(v models.VehicleListing) bool {
	if normalizeField(v.Category) == "2-wheeler" {
		return true
	}
	vt := normalizeField(v.VehicleType)
	sub := normalizeField(v.Subcategory)
	return bikeTypes[vt] || bikeTypes[sub] || scooterTypes[vt] || scooterTypes[sub]
}

// matchesTab reports whether a listing's type matches a category tab
func matchesTab(v models.VehicleListing, tab string) bool {
	vt := normalizeField(v.VehicleType)
	sub := normalizeField(v.Subcategory)

	switch normalizeField(tab) {
	case "", TabAll:
		return isTwoWheeler(v)
	case TabBikes, "bike":
		return bikeTypes[vt] || bikeTypes[sub]
	case TabScooty, "scooter":
		return scooterTypes[vt] || scooterTypes[sub]
	default:
		return vt == normalizeField(tab) || sub == normalizeField(tab)
	}
}

// FilterGroupsByTab keeps the groups whose representative matches the tab,
// preserving order
func FilterGroupsByTab(groups []models.VehicleGroup, tab string) []models.VehicleGroup {
	var filtered []models.VehicleGroup
	for _, g := range groups {
		if matchesTab(g.Main, tab) {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

// SearchGroups keeps the groups whose representative matches the free-text
// query on model, city or business name. An empty query keeps everything.
func SearchGroups(groups []models.VehicleGroup, query string) []models.VehicleGroup {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return groups
	}

	var matched []models.VehicleGroup
	for _, g := range groups {
		if strings.Contains(strings.ToLower(g.Main.Model), q) ||
			strings.Contains(strings.ToLower(g.Main.City), q) ||
			(g.Main.BusinessName != nil && strings.Contains(strings.ToLower(*g.Main.BusinessName), q)) {
			matched = append(matched, g)
		}
	}
	return matched
}
