package model

import "time"

// RunMode distinguishes simulate-only runs from live CRM writes.
type RunMode string

const (
	RunModeDryRun RunMode = "dry_run"
	RunModeLive   RunMode = "live"
)

// Run is a completed pipeline execution recorded in the local history store.
type Run struct {
	ID           string    `json:"id"`
	Location     string    `json:"location"`
	Mode         RunMode   `json:"mode"`
	LeadsFound   int       `json:"leads_found"`
	EmailsFound  int       `json:"emails_found"`
	CRMCreated   int       `json:"crm_created"`
	CRMDupes     int       `json:"crm_duplicates"`
	CRMErrors    int       `json:"crm_errors"`
	CRMSimulated int       `json:"crm_simulated"`
	CreatedAt    time.Time `json:"created_at"`
}
