package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for batch run identifiers.
	FieldRunID = "run_id"
	// FieldStar is the standardized structured logging key for the 0-based star index within a batch.
	FieldStar = "star"
	// FieldTeff is the standardized structured logging key for effective temperature (K).
	FieldTeff = "teff"
	// FieldLogg is the standardized structured logging key for surface gravity (cgs dex).
	FieldLogg = "logg"
	// FieldFeH is the standardized structured logging key for metallicity (dex).
	FieldFeH = "feh"
)
