// Package core provides the record store and the business logic around it.
//
// # Error Codes Reference
//
// Errors shown to users carry a short code so a problem report can be
// matched to the log line that produced it.
//
// # Record Errors (REC001-REC099)
//
//	REC001 - Record not found: the record was already deleted
//	         Patterns: "record not found"
//	REC002 - Invalid position: no record at that position
//	         Patterns: "row index out of range"
//	REC003 - Duplicate ID: a record with this ID already exists
//	         Patterns: "duplicate id"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Required field: Name, Current Date or Special Date is empty
//	         Patterns: "required field empty"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Corrupted data file: the backing CSV could not be parsed
//	          Patterns: "invalid csv"
//	FILE002 - Request too large: the submitted form exceeds the size limit
//	          Patterns: "request body too large"
//
// # Image Errors (IMG001-IMG099)
//
//	IMG001 - Image too large           Patterns: "image too large"
//	IMG002 - Unsupported image type    Patterns: "unsupported image type"
//	IMG003 - Unreadable image          Patterns: "decode image"
//	IMG004 - Uploads disabled          Patterns: "image uploads are disabled"
//	IMG005 - Image missing             Patterns: "image not found"
//	IMG006 - Resizer busy              Patterns: "image processing busy"
//
// # Storage Errors (STORE001-STORE099)
//
//	STORE001 - Not writable            Patterns: "permission denied", "read-only file system"
//	STORE002 - Disk full               Patterns: "no space left"
//	STORE003 - Database unreachable    Patterns: "connection refused"
//
// # Request Errors (REQ001-REQ099, RATE001)
//
//	REQ001 - Cancelled                 Patterns: "context canceled"
//	REQ002 - Timed out                 Patterns: "context deadline exceeded"
//	REQ003 - Malformed request         Patterns: "decode request", "parse form"
//	EXP001 - Unknown export format     Patterns: "unknown export format"
//	RATE001 - Rate limited             Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the application log for the
// original error.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Records
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "That loved one is no longer in the list",
			Action:  "Refresh the page to see the current list",
			Code:    "REC001",
		},
	},
	{
		pattern: "row index out of range",
		msg: UserMessage{
			Message: "There is no record at that position",
			Action:  "List the records again and pick a valid position",
			Code:    "REC002",
		},
	},
	{
		pattern: "duplicate id",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Please try saving again",
			Code:    "REC003",
		},
	},

	// Validation
	{
		pattern: "required field empty",
		msg: UserMessage{
			Message: "Please fill in all fields before saving",
			Action:  "Name, Current Date and Special Date are required",
			Code:    "VAL001",
		},
	},

	// Files
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "Error loading the data file. The file might be corrupted",
			Action:  "Try deleting and regenerating it; the next save replaces it",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The submitted form is too large",
			Action:  "Choose a smaller photo",
			Code:    "FILE002",
		},
	},

	// Images
	{
		pattern: "image too large",
		msg: UserMessage{
			Message: "The photo exceeds the maximum size",
			Action:  "Choose a smaller photo",
			Code:    "IMG001",
		},
	},
	{
		pattern: "unsupported image type",
		msg: UserMessage{
			Message: "That photo format is not supported",
			Action:  "Upload a JPG, PNG or WEBP image",
			Code:    "IMG002",
		},
	},
	{
		pattern: "decode image",
		msg: UserMessage{
			Message: "The photo could not be read",
			Action:  "Upload the photo again or try a different file",
			Code:    "IMG003",
		},
	},
	{
		pattern: "image uploads are disabled",
		msg: UserMessage{
			Message: "Photo uploads are turned off",
			Action:  "Save the record without a photo",
			Code:    "IMG004",
		},
	},
	{
		pattern: "image not found",
		msg: UserMessage{
			Message: "The photo for this record is missing",
			Action:  "Delete the record and add it again with a new photo",
			Code:    "IMG005",
		},
	},
	{
		pattern: "image processing busy",
		msg: UserMessage{
			Message: "Too many photos are loading right now",
			Action:  "Reload the page in a moment",
			Code:    "IMG006",
		},
	},

	// Storage
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "The data could not be saved",
			Action:  "Check that the data directory is writable",
			Code:    "STORE001",
		},
	},
	{
		pattern: "read-only file system",
		msg: UserMessage{
			Message: "The data could not be saved",
			Action:  "Check that the data directory is writable",
			Code:    "STORE001",
		},
	},
	{
		pattern: "no space left",
		msg: UserMessage{
			Message: "The disk is full",
			Action:  "Free some disk space and try again",
			Code:    "STORE002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the database",
			Action:  "Please try again in a few moments",
			Code:    "STORE003",
		},
	},

	// Requests
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "decode request",
		msg: UserMessage{
			Message: "The request body could not be read",
			Action:  "Send a JSON object with name, current_date and special_date",
			Code:    "REQ003",
		},
	},
	{
		pattern: "parse form",
		msg: UserMessage{
			Message: "The form could not be read",
			Action:  "Reload the page and submit the form again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "unknown export format",
		msg: UserMessage{
			Message: "That export format is not available",
			Action:  "Choose csv or xlsx",
			Code:    "EXP001",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// The zero UserMessage is returned for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
