// Package common keeps types shared by both compilation pipelines, the
// command line front end and the configuration.
package common

import (
	"path/filepath"
	"strings"
)

// How var() usages are resolved in stylesheets.
// ENUM(native, module)
type ResolutionType int

// Scheme used to make stylesheet selectors unique per component.
// ENUM(runtime, attribute)
type Scoping int

// Kind of component source file.
// ENUM(template, stylesheet)
type FileKind int

// FileKindFromName selects pipeline by file extension.
func FileKindFromName(name string) (FileKind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html":
		return FileKindTemplate, true
	case ".css":
		return FileKindStylesheet, true
	default:
		return FileKind(0), false
	}
}

// Ext returns source file extension for the kind.
func (k FileKind) Ext() string {
	switch k {
	case FileKindTemplate:
		return ".html"
	case FileKindStylesheet:
		return ".css"
	default:
		// this should never happen
		panic("unsupported file kind requested")
	}
}
