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

import "regexp"

var placeholderRe = regexp.MustCompile(`\$\{([^}]*)\}`)

// Render substitutes every ${key} placeholder in the template. The key
// glyphMap is the JSON form of the glyph map, and all other keys come from
// data (which may also override glyphMap). Any placeholder without a
// non-empty value fails with a TemplateSubstitutionError.
func Render(m *GlyphMap, template string, data map[string]string) (string, error) {
	content, err := m.JSON()
	if err != nil {
		return "", err
	}
	vars := map[string]string{"glyphMap": content}
	for k, v := range data {
		vars[k] = v
	}
	var substErr error
	out := placeholderRe.ReplaceAllStringFunc(template, func(placeholder string) string {
		if substErr != nil {
			return ""
		}
		key := placeholderRe.FindStringSubmatch(placeholder)[1]
		value := vars[key]
		if value == "" {
			substErr = &TemplateSubstitutionError{Key: key, Template: template}
		}
		return value
	})
	if substErr != nil {
		return "", substErr
	}
	return out, nil
}
