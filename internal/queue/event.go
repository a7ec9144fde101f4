// Package queue defines message payloads exchanged over the message broker.
package queue

// JobConfirmedEvent is published when both parties have settled an
// assignment: the farmer accepted and the labourer confirmed. It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type JobConfirmedEvent struct {
    AssignmentID uint64 `json:"assignment_id"`
    JobID        uint64 `json:"job_id"`
    FarmerID     uint64 `json:"farmer_id"`
    LabourID     uint64 `json:"labour_id"`
    JobTitle     string `json:"job_title"`
    WorkType     string `json:"work_type"`
    Days         int    `json:"days"`
    Wage         string `json:"wage"`
    Location     string `json:"location"`
    ConfirmedAt  string `json:"confirmed_at"`
}
