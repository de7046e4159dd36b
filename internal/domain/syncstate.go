package domain

import "time"

// SyncState is the process-wide view of cloud connectivity and the most
// recent sync outcome. It is owned and mutated by the sync orchestrator.
type SyncState struct {
	ConnectedDrive bool
	ConnectedGraph bool
	Syncing        bool
	LastSyncTime   time.Time // zero when never synced
	LastError      string    // empty when the last sync succeeded
}

// Identity describes the account a cloud provider is connected as.
type Identity struct {
	Email       string
	DisplayName string
}

// SyncCounts reports how many entry files moved in each direction during
// one full sync cycle.
type SyncCounts struct {
	Uploaded   int
	Downloaded int
}
