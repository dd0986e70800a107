/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package core

import (
	"fmt"
	"io"
	"strconv"
	"sync"
)

// Sinks are the three output streams of the engine: parse and
// compile failures, diagnostics, and health records from report
// rules.  Each warning text is emitted once.
type Sinks struct {
	mu      sync.Mutex
	errW    io.Writer
	warnW   io.Writer
	healthW io.Writer
	seen    map[string]bool
}

func NewSinks(errW, warnW, healthW io.Writer) *Sinks {
	return &Sinks{errW: errW, warnW: warnW, healthW: healthW, seen: map[string]bool{}}
}

// Error writes one line to the error sink.
func (s *Sinks) Error(err error) {
	if s == nil || s.errW == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.errW, "%s\n", err)
}

// Warning writes one line to the warning sink, suppressing repeats.
func (s *Sinks) Warning(err error) {
	if s == nil || s.warnW == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := err.Error()
	if s.seen[msg] {
		return
	}
	s.seen[msg] = true
	fmt.Fprintf(s.warnW, "%s\n", msg)
}

// Health writes one tab-separated health record: day, person id,
// condition id, state id, expression value.
func (s *Sinks) Health(day int, p PersonID, cond, state int, value float64) {
	if s == nil || s.healthW == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.healthW, "%d\t%d\t%d\t%d\t%s\n",
		day, p, cond, state, strconv.FormatFloat(value, 'g', -1, 64))
}
