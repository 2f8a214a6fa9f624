package types

// Table names of the persisted schema. These are the on-disk contract read by
// backup and sync collaborators.
const (
	TablePlants          = "plants"
	TableWateringHistory = "watering_history"
	TableMoments         = "moments"
	TableGoals           = "goals"
	TablePlantNotes      = "plant_notes"
)

// StandardTableNames lists all tables in dependency order: plants first,
// then the tables whose rows reference a plant by plant_id.
var StandardTableNames = []string{
	TablePlants,
	TableWateringHistory,
	TableMoments,
	TableGoals,
	TablePlantNotes,
}

// DependentTableNames lists the tables whose rows are removed when their
// plant is deleted.
var DependentTableNames = []string{
	TableWateringHistory,
	TableMoments,
	TableGoals,
	TablePlantNotes,
}
