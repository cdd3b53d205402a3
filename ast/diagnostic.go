// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import "fmt"

// DiagnosticSource names which pipeline stage raised a Diagnostic.
type DiagnosticSource int

const (
	SourceCompiler DiagnosticSource = iota
	SourceParser
	SourceAnalyzer
)

// Severity is the user-facing importance of a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// RelatedInformation points a diagnostic at a secondary, explanatory
// location (e.g. "first declared here").
type RelatedInformation struct {
	FilePath string
	Range    SourceRange
	Message  string
}

// Diagnostic is a single structured compiler message (spec.md §3/§7).
type Diagnostic struct {
	FilePath string
	Range    SourceRange
	Source   DiagnosticSource
	Severity Severity
	Message  string
	Related  []RelatedInformation
}

// String renders a diagnostic in the `file:line:col: severity: message`
// form spec.md §6 requires on stderr.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%s: %s: %s", d.FilePath, d.Range.Start, d.Severity, d.Message)
}

// IsError reports whether the diagnostic should fail the build.
func (d Diagnostic) IsError() bool { return d.Severity == SeverityError }

// AnyErrors reports whether diags contains at least one error-severity
// diagnostic.
func AnyErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.IsError() {
			return true
		}
	}
	return false
}
