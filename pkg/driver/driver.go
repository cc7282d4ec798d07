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

// Package driver maps the instrument kinds of the config file to the
// concrete drivers.
package driver

import (
	"fmt"

	"jinr.ru/greenlab/go-instr/pkg/config"
	"jinr.ru/greenlab/go-instr/pkg/driver/femto"
	"jinr.ru/greenlab/go-instr/pkg/driver/lecroy"
	"jinr.ru/greenlab/go-instr/pkg/driver/sim"
	"jinr.ru/greenlab/go-instr/pkg/driver/toptica"
	"jinr.ru/greenlab/go-instr/pkg/instrument"
)

// New builds the instrument described by cfg and returns its parameter
// registry.
func New(cfg *config.Instrument) (*instrument.Instrument, error) {
	switch cfg.Kind {
	case config.KindSim:
		s, err := sim.New(cfg.Name)
		if err != nil {
			return nil, err
		}
		return s.Instrument, nil
	case config.KindOE300:
		oe, err := femto.New(cfg.Name, 1)
		if err != nil {
			return nil, err
		}
		return oe.Instrument, nil
	case config.KindDLCpro:
		d, err := toptica.Dial(cfg.Name, netAddress(cfg, toptica.DefaultPort))
		if err != nil {
			return nil, err
		}
		return d.Instrument, nil
	case config.KindWaveRunner:
		transport, err := openTransport(cfg)
		if err != nil {
			return nil, err
		}
		w, err := lecroy.New(cfg.Name, transport)
		if err != nil {
			return nil, err
		}
		return w.Instrument, nil
	}
	return nil, config.ErrUnknownInstrumentKind{Name: cfg.Name, Kind: cfg.Kind}
}

// openTransport picks serial or TCP from the config fields.
func openTransport(cfg *config.Instrument) (instrument.Transport, error) {
	if cfg.Device != "" {
		return instrument.OpenSerial(cfg.Device, cfg.Baud)
	}
	if cfg.Address != "" {
		return instrument.DialIP(netAddress(cfg, 0))
	}
	return nil, fmt.Errorf("instrument %s has neither address nor device", cfg.Name)
}

func netAddress(cfg *config.Instrument, defaultPort int) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	return fmt.Sprintf("%s:%d", cfg.Address, port)
}
