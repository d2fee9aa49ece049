package db

import _ "embed"

//go:embed schema.sql
var Schema string

// submission_log.status
const (
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusFailed   = "failed"
)
