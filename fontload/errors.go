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

package fontload

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when a load is attempted without the download
// and registration capabilities.
var ErrUnsupported = errors.New("dynamic font loading is not supported")

// AssetResolutionError is returned when no asset exists for a font reference.
type AssetResolutionError struct {
	Family string
	Ref    AssetRef
}

func (e *AssetResolutionError) Error() string {
	return fmt.Sprintf("no asset found for font family %q, ref: %v", e.Family, e.Ref)
}

// NativeCapabilityError wraps a failure to download or register a font.
type NativeCapabilityError struct {
	// Op is "download" or "register".
	Op     string
	Family string
	Err    error
}

func (e *NativeCapabilityError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Family, e.Err)
}

func (e *NativeCapabilityError) Unwrap() error {
	return e.Err
}
