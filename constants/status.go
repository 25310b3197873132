package constants

// JobStatus is the canonical status for rows in the job audit log.
type JobStatus string

// Stable values (store these exact strings in the DB).
const (
	JobStatusRunning    JobStatus = "RUNNING"     // in progress
	JobStatusExtractOK  JobStatus = "EXTRACT_OK"  // stage 1 completed (text extracted)
	JobStatusVerified   JobStatus = "VERIFIED"    // stage 2 completed, all explanations grounded
	JobStatusUnverified JobStatus = "UNVERIFIED"  // stage 2 completed, best-effort result after retries
	JobStatusFailed     JobStatus = "FAILED"      // terminal failure
)
