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

// Package control runs the instruments: it builds the drivers named in
// the config, persists parameter snapshots, and exposes everything
// over the REST API.
package control

import (
	"context"

	"go.uber.org/multierr"

	"jinr.ru/greenlab/go-instr/pkg/config"
	"jinr.ru/greenlab/go-instr/pkg/driver"
	"jinr.ru/greenlab/go-instr/pkg/instrument"
	"jinr.ru/greenlab/go-instr/pkg/log"
	"jinr.ru/greenlab/go-instr/pkg/parameter"
	"jinr.ru/greenlab/go-instr/pkg/srv/control/ifc"
	"jinr.ru/greenlab/go-instr/pkg/state"
)

type ControlServer struct {
	context.Context
	*config.Config
	instruments map[string]*instrument.Instrument
	state       *state.ParamState
	api         ifc.ApiServer
}

var _ ifc.ControlServer = &ControlServer{}

// NewControlServer opens the snapshot database and builds a driver for
// every instrument in the config.
func NewControlServer(ctx context.Context, cfg *config.Config) (*ControlServer, error) {
	names := make([]string, 0, len(cfg.Instruments))
	for _, ic := range cfg.Instruments {
		names = append(names, ic.Name)
	}
	paramState, err := state.NewParamState(ctx, cfg.StateDBPath(), names)
	if err != nil {
		return nil, err
	}

	s := &ControlServer{
		Context:     ctx,
		Config:      cfg,
		instruments: make(map[string]*instrument.Instrument),
		state:       paramState,
	}

	for _, ic := range cfg.Instruments {
		log.Info("Initializing instrument: %s kind: %s", ic.Name, ic.Kind)
		inst, err := driver.New(ic)
		if err != nil {
			paramState.Close()
			return nil, err
		}
		s.instruments[inst.Name()] = inst
	}

	apiServer, err := NewApiServer(ctx, cfg, s)
	if err != nil {
		paramState.Close()
		return nil, err
	}
	s.api = apiServer

	return s, nil
}

// AddInstrument registers an already-built instrument, replacing any
// driver of the same name.
func (s *ControlServer) AddInstrument(inst *instrument.Instrument) {
	s.instruments[inst.Name()] = inst
}

func (s *ControlServer) GetInstrumentByName(name string) (*instrument.Instrument, error) {
	inst, ok := s.instruments[name]
	if !ok {
		return nil, ErrInstrumentNotFound{Name: name}
	}
	return inst, nil
}

// PersistSnapshot writes one parameter snapshot to the state database.
func (s *ControlServer) PersistSnapshot(instrumentName, paramName string, snap *parameter.Snapshot) error {
	return s.state.SetParam(instrumentName, paramName, snap)
}

// Run starts the API server and blocks until the context is done.
func (s *ControlServer) Run() error {
	defer s.Close()

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.api.Run()
	}()

	select {
	case <-s.Context.Done():
		return s.Context.Err()
	case err := <-errChan:
		return err
	}
}

// Close releases every instrument and the state database.
func (s *ControlServer) Close() error {
	var err error
	for _, inst := range s.instruments {
		err = multierr.Append(err, inst.Close())
	}
	s.state.Close()
	return err
}
