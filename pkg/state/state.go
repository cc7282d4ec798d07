/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package state persists parameter snapshots in a bbolt database, one
// bucket per instrument, so the latest known values survive a restart
// of the control server.
package state

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"jinr.ru/greenlab/go-instr/pkg/log"
	"jinr.ru/greenlab/go-instr/pkg/parameter"
)

const (
	BucketNamePrefix = "param_"
)

type ParamState struct {
	context.Context
	DB *bbolt.DB
}

// NewParamState opens the snapshot database at path and creates a
// bucket for each named instrument.
func NewParamState(ctx context.Context, path string, instruments []string) (*ParamState, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range instruments {
			_, err = tx.CreateBucketIfNotExists([]byte(bucketName(name)))
			if err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return &ParamState{
		Context: ctx,
		DB:      db,
	}, nil
}

func bucketName(instrument string) string {
	return fmt.Sprintf("%s%s", BucketNamePrefix, instrument)
}

// Close ...
func (s *ParamState) Close() {
	s.DB.Close()
}

// SetParam persists the snapshot of one parameter.
func (s *ParamState) SetParam(instrument, name string, snap *parameter.Snapshot) error {
	log.Debug("Setting parameter snapshot: instrument: %s parameter: %s value: %v", instrument, name, snap.Value)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(instrument)))
		if b == nil {
			return ErrBucketNotFound{Name: bucketName(instrument)}
		}
		data, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		return b.Put([]byte(name), data)
	})
}

// GetParam returns the persisted snapshot of one parameter.
func (s *ParamState) GetParam(instrument, name string) (*parameter.Snapshot, error) {
	log.Debug("Getting parameter snapshot: instrument: %s parameter: %s", instrument, name)
	snap := &parameter.Snapshot{}
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(instrument)))
		if b == nil {
			return ErrBucketNotFound{Name: bucketName(instrument)}
		}
		data := b.Get([]byte(name))
		if data == nil {
			return ErrParamNotFound{Instrument: instrument, Parameter: name}
		}
		return json.Unmarshal(data, snap)
	}); err != nil {
		return nil, err
	}
	return snap, nil
}

// GetParamAll returns all persisted snapshots of one instrument.
func (s *ParamState) GetParamAll(instrument string) (map[string]*parameter.Snapshot, error) {
	log.Debug("Getting all parameter snapshots: instrument: %s", instrument)
	result := make(map[string]*parameter.Snapshot)
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName(instrument)))
		if b == nil {
			return ErrBucketNotFound{Name: bucketName(instrument)}
		}
		return b.ForEach(func(k, v []byte) error {
			snap := &parameter.Snapshot{}
			if err := json.Unmarshal(v, snap); err != nil {
				return err
			}
			result[string(k)] = snap
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return result, nil
}
