// Package status provides load status tracking for the catalog snapshot.
package status

import "time"

// LoadPhase represents the current phase of the catalog load
type LoadPhase string

const (
	// LoadPhasePending means no load attempt has completed yet
	LoadPhasePending LoadPhase = "Pending"

	// LoadPhaseLoaded means the last load attempt produced a snapshot
	LoadPhaseLoaded LoadPhase = "Loaded"

	// LoadPhaseFailed means the last load attempt failed
	LoadPhaseFailed LoadPhase = "Failed"
)

// LoadStatus represents the current state of catalog loading
type LoadStatus struct {
	// Phase represents the current load phase
	Phase LoadPhase `json:"phase" yaml:"phase"`

	// Message provides additional information about the load status
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// LastAttempt is the timestamp of the last load attempt
	LastAttempt *time.Time `json:"last_attempt,omitempty" yaml:"lastAttempt,omitempty"`

	// AttemptCount is the number of failed attempts since the last success
	AttemptCount int `json:"attempt_count,omitempty" yaml:"attemptCount,omitempty"`

	// LastLoadTime is the timestamp of the last successful load
	LastLoadTime *time.Time `json:"last_load_time,omitempty" yaml:"lastLoadTime,omitempty"`

	// LastLoadHash is the content hash of the last loaded catalog
	LastLoadHash string `json:"last_load_hash,omitempty" yaml:"lastLoadHash,omitempty"`

	// ItemCount is the number of accepted items in the current snapshot
	ItemCount int `json:"item_count" yaml:"itemCount"`
}

// Resolved reports whether at least one load attempt has finished,
// successfully or not
func (s LoadStatus) Resolved() bool {
	return s.Phase == LoadPhaseLoaded || s.Phase == LoadPhaseFailed
}
