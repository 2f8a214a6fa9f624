package types

import "database/sql"

// Plant is the root entity. Dependent records reference it by PlantID.
type Plant struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Species           string  `json:"species"`
	AddedDate         string  `json:"added_date"`        // ISO-8601
	LastWateredDate   *string `json:"last_watered_date"` // ISO-8601, nil if never watered
	WateringFrequency int     `json:"watering_frequency"`
	ImageThumb        *string `json:"image_thumb"` // file URI, nil if no photo
	Notes             string  `json:"notes"`
	SyncStatus        int     `json:"sync_status"` // 1 once written locally
}

// PlantPatch lists the plant fields to change. Nil fields are left alone.
// The nullable columns take a sql.NullString so they can be cleared.
type PlantPatch struct {
	Name              *string
	Species           *string
	AddedDate         *string
	LastWateredDate   *sql.NullString
	WateringFrequency *int
	ImageThumb        *sql.NullString
	Notes             *string
}

// IsEmpty reports whether the patch changes nothing.
func (p PlantPatch) IsEmpty() bool {
	return p.Name == nil && p.Species == nil && p.AddedDate == nil &&
		p.LastWateredDate == nil && p.WateringFrequency == nil &&
		p.ImageThumb == nil && p.Notes == nil
}

// Ptr returns a pointer to v. It keeps patch literals short:
//
//	types.PlantPatch{Name: types.Ptr("Fern")}
func Ptr[T any](v T) *T {
	return &v
}

// Null returns a patch value that clears a nullable column.
func Null() *sql.NullString {
	return &sql.NullString{}
}

// NullOf returns a patch value that sets a nullable column to s.
func NullOf(s string) *sql.NullString {
	return &sql.NullString{String: s, Valid: true}
}
