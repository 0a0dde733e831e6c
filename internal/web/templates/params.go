// Package templates renders the HTML pages as templ components.
//
// Edit the .templ files and run `templ generate`; the *_templ.go files are
// generated.
package templates

import (
	"net/url"

	"github.com/JonMunkholm/LovedOnes/internal/core"
)

// FormValues echoes the add form back after a rejected submit.
type FormValues struct {
	Name        string
	CurrentDate string
	SpecialDate string
}

// HomeParams is everything the main page shows.
type HomeParams struct {
	Records []core.Record
	Query   string
	Results []core.Record

	Form        FormValues
	FormWarning string

	// LoadError is set when the data file could not be read on startup.
	LoadError *core.UserMessage

	Saved        bool
	ImageAccept  string
	ImagesActive bool
}

// RecordPath is the URL of a record, with the ID path-escaped.
func RecordPath(id string) string {
	return "/records/" + url.PathEscape(id)
}
