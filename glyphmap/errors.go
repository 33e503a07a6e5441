// Copyright 2018 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package glyphmap

import "fmt"

// ParseConsistencyError is returned when a stylesheet rule has a content
// declaration but its selector list or content value cannot be extracted.
// This indicates a CSS construct that is not supported.
type ParseConsistencyError struct {
	Rule   string
	Reason string
}

func (e *ParseConsistencyError) Error() string {
	return fmt.Sprintf("inconsistent style rule (%s): %q", e.Reason, e.Rule)
}

// TemplateSubstitutionError is returned when a template references a key
// that has no value.
type TemplateSubstitutionError struct {
	Key      string
	Template string
}

func (e *TemplateSubstitutionError) Error() string {
	return fmt.Sprintf("%s in template %s not available", e.Key, e.Template)
}

// CodepointError is returned for a codepoints manifest line that has both a
// name and a value, but the value is not a hex codepoint.
type CodepointError struct {
	File  string
	Line  int
	Name  string
	Value string
	Err   error
}

func (e *CodepointError) Error() string {
	return fmt.Sprintf("%s:%d: bad codepoint %q for %q: %v",
		e.File, e.Line, e.Value, e.Name, e.Err)
}

func (e *CodepointError) Unwrap() error {
	return e.Err
}
