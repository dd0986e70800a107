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

// Package store persists simulation runs: per-run metadata and daily
// condition-state occupancy counts, in a bolt database with one
// bucket per run.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/Comcast/cohort/core"
)

var (
	metaKey    = []byte("meta")
	daysBucket = []byte("days")
)

// RunMeta describes one simulation run.
type RunMeta struct {
	Started time.Time `json:"started"`
	Seed    uint64    `json:"seed"`
	Days    int       `json:"days"`
	People  int       `json:"people"`
	Rules   int       `json:"rules"`
}

// DayCounts is the condition-state occupancy at the end of one day,
// keyed by condition name then state name.
type DayCounts struct {
	Day    int                       `json:"day"`
	Counts map[string]map[string]int `json:"counts"`
}

// Snapshot counts the current state occupancy of the world.
func Snapshot(cat *core.Catalog, w core.World, day int) DayCounts {
	dc := DayCounts{Day: day, Counts: map[string]map[string]int{}}
	for c := 0; c < cat.CondCount(); c++ {
		cond := cat.Cond(c)
		states := map[string]int{}
		for _, pid := range w.People() {
			p := w.Person(pid)
			if p == nil {
				continue
			}
			states[cond.StateName(p.State(c))]++
		}
		dc.Counts[cond.Name] = states
	}
	return dc
}

// RunStore is bolt-backed run persistence.
type RunStore struct {
	filename string
	db       *bolt.DB
}

func NewRunStore(filename string) (*RunStore, error) {
	return &RunStore{filename: filename}, nil
}

func (s *RunStore) Open(ctx context.Context) error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}
	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *RunStore) Close(ctx context.Context) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun creates a new run bucket and stores its metadata,
// returning the run id.
func (s *RunStore) BeginRun(ctx context.Context, meta RunMeta) (string, error) {
	id := uuid.New().String()
	bs, err := json.Marshal(&meta)
	if err != nil {
		return "", err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucket([]byte(id))
		if err != nil {
			return err
		}
		if _, err := b.CreateBucket(daysBucket); err != nil {
			return err
		}
		return b.Put(metaKey, bs)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Meta reads a run's metadata.
func (s *RunStore) Meta(ctx context.Context, runID string) (*RunMeta, error) {
	var meta RunMeta
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(runID))
		if b == nil {
			return fmt.Errorf("no run %s", runID)
		}
		bs := b.Get(metaKey)
		if bs == nil {
			return fmt.Errorf("run %s has no metadata", runID)
		}
		return json.Unmarshal(bs, &meta)
	})
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// WriteDay appends one day's occupancy counts to a run.
func (s *RunStore) WriteDay(ctx context.Context, runID string, dc DayCounts) error {
	bs, err := json.Marshal(&dc)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(runID))
		if b == nil {
			return fmt.Errorf("no run %s", runID)
		}
		return b.Bucket(daysBucket).Put([]byte(fmt.Sprintf("%08d", dc.Day)), bs)
	})
}

// ReadDays returns a run's daily counts in day order.
func (s *RunStore) ReadDays(ctx context.Context, runID string) ([]DayCounts, error) {
	out := make([]DayCounts, 0, 32)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(runID))
		if b == nil {
			return fmt.Errorf("no run %s", runID)
		}
		c := b.Bucket(daysBucket).Cursor()
		for k, bs := c.First(); k != nil; k, bs = c.Next() {
			var dc DayCounts
			if err := json.Unmarshal(bs, &dc); err != nil {
				return err
			}
			out = append(out, dc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Runs lists the stored run ids.
func (s *RunStore) Runs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			ids = append(ids, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
