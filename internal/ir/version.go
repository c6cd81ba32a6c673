package ir

// Version constants for the record layout and engine.
const (
	// LayoutVersion identifies the binary record layout. Changing any field
	// order or width requires a new version and a store migration.
	LayoutVersion = "1"

	// EngineVersion is the socialgraph engine version stamped on journal entries.
	EngineVersion = "0.1.0"
)
