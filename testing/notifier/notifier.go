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

// Package notifier provides assertions on signal channels (<-chan struct{}),
// such as file watcher updates, and on font loads settling.
package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var positiveTimeout = 10 * time.Millisecond
var negativeTimeout = time.Second

// settleTimeout is longer than negativeTimeout, since loads may go through
// a local http server and the filesystem before settling.
var settleTimeout = 5 * time.Second

type result int

const (
	timedOut result = iota
	notified
	closed
)

func (r result) String() string {
	switch r {
	case notified:
		return "notification"
	case closed:
		return "close"
	}
	return "timeout"
}

func receive(ch <-chan struct{}, timeout time.Duration) result {
	select {
	case _, ok := <-ch:
		if ok {
			return notified
		}
		return closed
	case <-time.After(timeout):
		return timedOut
	}
}

// AssertNotified asserts that the given channel received a notification.
func AssertNotified(t *testing.T, ch <-chan struct{}, formatAndArgs ...interface{}) {
	if r := receive(ch, negativeTimeout); r != notified {
		require.Fail(t, "Expected notification, got "+r.String(), formatAndArgs...)
	}
}

// AssertClosed asserts that the given channel was closed.
func AssertClosed(t *testing.T, ch <-chan struct{}, formatAndArgs ...interface{}) {
	if r := receive(ch, negativeTimeout); r != closed {
		require.Fail(t, "Expected channel close, got "+r.String(), formatAndArgs...)
	}
}

// AssertNoUpdate asserts that the given channel was not notified or closed.
func AssertNoUpdate(t *testing.T, ch <-chan struct{}, formatAndArgs ...interface{}) {
	if r := receive(ch, positiveTimeout); r != timedOut {
		require.Fail(t, "Unexpected "+r.String(), formatAndArgs...)
	}
}

// Settler is anything that settles by closing its Done channel, such as a
// fontload.Load.
type Settler interface {
	Done() <-chan struct{}
}

// AssertSettled asserts that the load settles (successfully or not).
func AssertSettled(t *testing.T, s Settler, formatAndArgs ...interface{}) {
	if r := receive(s.Done(), settleTimeout); r != closed {
		require.Fail(t, "Expected load to settle, got "+r.String(), formatAndArgs...)
	}
}

// AssertPending asserts that the load has not settled yet.
func AssertPending(t *testing.T, s Settler, formatAndArgs ...interface{}) {
	if r := receive(s.Done(), positiveTimeout); r != timedOut {
		require.Fail(t, "Expected pending load, got "+r.String(), formatAndArgs...)
	}
}
