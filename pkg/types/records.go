package types

// WateringRecord is one entry of a plant's append-only watering log.
type WateringRecord struct {
	ID          string `json:"id"`
	PlantID     string `json:"plant_id"`
	WateredDate string `json:"watered_date"`
	Notes       string `json:"notes"`
}

// Moment is a photo journal entry for a plant.
type Moment struct {
	ID      string `json:"id"`
	PlantID string `json:"plant_id"`
	Image   string `json:"image"`
	Caption string `json:"caption"`
	Date    string `json:"date"`
}

// MomentPatch lists the moment fields to change.
type MomentPatch struct {
	Image   *string
	Caption *string
	Date    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p MomentPatch) IsEmpty() bool {
	return p.Image == nil && p.Caption == nil && p.Date == nil
}

// Goal is a user-defined care target. The store keeps Completed as 0/1;
// it is a bool everywhere above the store.
type Goal struct {
	ID          string `json:"id"`
	PlantID     string `json:"plant_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TargetDate  string `json:"target_date"` // ISO-8601 or empty
	Completed   bool   `json:"completed"`
}

// GoalPatch lists the goal fields to change.
type GoalPatch struct {
	Title       *string
	Description *string
	TargetDate  *string
	Completed   *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p GoalPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.TargetDate == nil && p.Completed == nil
}

// PlantNote is a free-text note attached to a plant.
type PlantNote struct {
	ID      string `json:"id"`
	PlantID string `json:"plant_id"`
	Note    string `json:"note"`
	Date    string `json:"date"`
}

// NotePatch lists the note fields to change.
type NotePatch struct {
	Note *string
	Date *string
}

// IsEmpty reports whether the patch changes nothing.
func (p NotePatch) IsEmpty() bool {
	return p.Note == nil && p.Date == nil
}
