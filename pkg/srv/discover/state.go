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

package discover

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-instr/pkg/config"
	"jinr.ru/greenlab/go-instr/pkg/log"
)

const (
	BucketPrefix   = "discover_"
	DescriptionKey = "instrument_description"
)

type State struct {
	context.Context
	DB *bbolt.DB
}

func NewState(ctx context.Context, cfg *config.Config) (*State, error) {
	db, err := bbolt.Open(cfg.DiscoverDBPath(), 0600, nil)
	if err != nil {
		return nil, err
	}
	return &State{
		Context: ctx,
		DB:      db,
	}, nil
}

// Close ...
func (s *State) Close() {
	s.DB.Close()
}

func BucketName(serialNumber string) string {
	return fmt.Sprintf("%s%s", BucketPrefix, serialNumber)
}

// CreateBucket ...
func (s *State) CreateBucket(name string) error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	})
}

// SetDescription persists one instrument's beacon description.
func (s *State) SetDescription(id *InstrumentDescription) error {
	log.Debug("Setting instrument description: instrument: %s", id.SerialNumber)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName(id.SerialNumber)))
		if b == nil {
			return ErrBucketNotFound{Name: BucketName(id.SerialNumber)}
		}
		idBytes, err := yaml.Marshal(id)
		if err != nil {
			return err
		}
		return b.Put([]byte(DescriptionKey), idBytes)
	})
}

// GetAllDescriptions returns every instrument seen so far.
func (s *State) GetAllDescriptions() ([]*InstrumentDescription, error) {
	log.Debug("Getting all instrument descriptions")
	var descriptions []*InstrumentDescription
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(_ []byte, b *bbolt.Bucket) error {
			idBytes := b.Get([]byte(DescriptionKey))
			if idBytes == nil {
				return nil
			}
			id := &InstrumentDescription{}
			if err := yaml.Unmarshal(idBytes, id); err != nil {
				log.Error("Error while unmarshalling instrument description: %s", err)
				return nil
			}
			descriptions = append(descriptions, id)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return descriptions, nil
}
