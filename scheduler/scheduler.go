// Package scheduler runs the backend's periodic maintenance jobs.
// Today that is the daily removal of guest users, with their watchlists,
// after a configurable period of inactivity. Jobs are defined in jobs.go.
package scheduler
