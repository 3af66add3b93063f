// Package ingest holds types shared by the workout import sources.
package ingest

// Result holds the outcome of an import.
type Result struct {
	SessionsReceived int `json:"sessions_received"`
	WorkoutsInserted int `json:"workouts_inserted"`
	WorkoutsReplaced int `json:"workouts_replaced"`
	SetsImported     int `json:"sets_imported"`
	WarmupsSkipped   int `json:"warmups_skipped,omitempty"`

	Message string `json:"message,omitempty"`
}
