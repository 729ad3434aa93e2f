package db

import "errors"

// Domain-level database error sentinels.
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Sharing link errors
	ErrSharingLinkNotFound = errors.New("sharing link not found")
	ErrDuplicateToken      = errors.New("sharing token already exists")
	ErrLinkInactive        = errors.New("sharing link is revoked or expired")

	// Submission errors
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrSubmissionNotPending = errors.New("submission is no longer pending")

	// Birthday errors
	ErrBirthdayNotFound = errors.New("birthday not found")
)

// pgUniqueViolation is the Postgres SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"
