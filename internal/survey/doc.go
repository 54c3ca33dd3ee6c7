// Package survey evaluates display conditions, visibility, progress and
// validation for a survey definition, and runs a respondent's session
// through not_started, in_progress, submitted and abandoned.
//
// Everything here is synchronous and free of I/O. Loading definitions and
// storing responses belong to the service layer.
package survey
