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

// go-instr API
//
// # RESTful APIs to interact with the go-instr control server
//
// Schemes: http
// Host: localhost:8000
// Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package control

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-instr/pkg/config"
	"jinr.ru/greenlab/go-instr/pkg/instrument"
	"jinr.ru/greenlab/go-instr/pkg/log"
	"jinr.ru/greenlab/go-instr/pkg/srv/control/ifc"
)

const (
	ApiPort = 8000
)

// ParamValue is the wire form of one parameter reading.
type ParamValue struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
	Time  string      `json:"ts,omitempty"`
}

// SetRequest is the body of a set operation.
type SetRequest struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// RampRequest configures stepping and delay of one parameter. Times
// are in seconds.
type RampRequest struct {
	Step      float64 `json:"step"`
	MaxValAge float64 `json:"max_val_age,omitempty"`
	Delay     float64 `json:"delay,omitempty"`
	MaxDelay  float64 `json:"max_delay,omitempty"`
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	ctrl ifc.ControlServer
}

var _ ifc.ApiServer = &ApiServer{}

func NewApiServer(ctx context.Context, cfg *config.Config, ctrl ifc.ControlServer) (ifc.ApiServer, error) {
	log.Info("Initializing API server with address: %s port: %d", cfg.IP, ApiPort)

	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		ctrl:    ctrl,
	}
	return s, nil
}

// Run starts serving the API.
func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s port: %d", s.Config.IP, ApiPort)
	s.ConfigureRouter()
	httpServer := &http.Server{
		Handler: handlers.CombinedLoggingHandler(log.Writer(), s.Router),
		Addr:    fmt.Sprintf("%s:%d", s.Config.IP, ApiPort),
	}
	return httpServer.ListenAndServe()
}

// ConfigureRouter builds the route table. Exposed separately so tests
// can drive the handlers without a listening socket.
func (s *ApiServer) ConfigureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	// swagger:operation GET /param/r/{instrument}/{name} read parameter
	// ---
	// summary: read one parameter from hardware
	// responses:
	//   "200":
	//     description: parameter value
	//   "404":
	//     description: unknown instrument or parameter
	subRouter.HandleFunc("/param/r/{instrument}/{name}", s.handleParamGet()).Methods("GET")
	// swagger:operation GET /param/r/{instrument} snapshot instrument
	// ---
	// summary: cached snapshot of all parameters of an instrument
	// responses:
	//   "200":
	//     description: parameter snapshots
	//   "404":
	//     description: unknown instrument
	subRouter.HandleFunc("/param/r/{instrument}", s.handleParamGetAll()).Methods("GET")
	// swagger:operation POST /param/w/{instrument} write parameter
	// ---
	// summary: set one parameter
	// responses:
	//   "200":
	//     description: value written
	//   "400":
	//     description: value rejected
	subRouter.HandleFunc("/param/w/{instrument}", s.handleParamSet()).Methods("POST")
	// swagger:operation GET /param/latest/{instrument}/{name} cached value
	// ---
	// summary: cached value without touching hardware
	// responses:
	//   "200":
	//     description: cached value
	subRouter.HandleFunc("/param/latest/{instrument}/{name}", s.handleParamLatest()).Methods("GET")
	// swagger:operation POST /ramp/{instrument}/{name} configure ramp
	// ---
	// summary: configure step size and inter-step delay
	// responses:
	//   "200":
	//     description: ramp configured
	//   "400":
	//     description: invalid step or delay combination
	subRouter.HandleFunc("/ramp/{instrument}/{name}", s.handleRamp()).Methods("POST")
}

func (s *ApiServer) lookupParam(w http.ResponseWriter, r *http.Request) (instrument.Param, string, bool) {
	vars := mux.Vars(r)
	inst, err := s.ctrl.GetInstrumentByName(vars["instrument"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, "", false
	}
	p, err := inst.Parameter(vars["name"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, "", false
	}
	return p, inst.Name(), true
}

func (s *ApiServer) handleParamGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, instName, ok := s.lookupParam(w, r)
		if !ok {
			return
		}
		value, err := p.Get()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		if err := s.ctrl.PersistSnapshot(instName, p.Name(), p.Snapshot()); err != nil {
			log.Error("Error while persisting snapshot: %s", err)
		}
		_, ts := p.Latest()
		writeJSON(w, &ParamValue{Name: p.Name(), Value: value, Time: ts.Format(time.RFC3339)})
	}
}

func (s *ApiServer) handleParamGetAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		inst, err := s.ctrl.GetInstrumentByName(vars["instrument"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		writeJSON(w, inst.Snapshot())
	}
}

func (s *ApiServer) handleParamSet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		inst, err := s.ctrl.GetInstrumentByName(vars["instrument"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		req := &SetRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p, err := inst.Parameter(req.Name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err := p.Set(req.Value); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.ctrl.PersistSnapshot(inst.Name(), p.Name(), p.Snapshot()); err != nil {
			log.Error("Error while persisting snapshot: %s", err)
		}
		writeJSON(w, &ParamValue{Name: p.Name(), Value: req.Value})
	}
}

func (s *ApiServer) handleParamLatest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _, ok := s.lookupParam(w, r)
		if !ok {
			return
		}
		value, ts := p.Latest()
		pv := &ParamValue{Name: p.Name(), Value: value}
		if !ts.IsZero() {
			pv.Time = ts.Format(time.RFC3339)
		}
		writeJSON(w, pv)
	}
}

func (s *ApiServer) handleRamp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _, ok := s.lookupParam(w, r)
		if !ok {
			return
		}
		rampable, ok := p.(instrument.Rampable)
		if !ok {
			http.Error(w, fmt.Sprintf("Parameter %s can not be ramped", p.Name()), http.StatusBadRequest)
			return
		}
		req := &RampRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := rampable.SetStep(req.Step, secs(req.MaxValAge)); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := rampable.SetDelay(secs(req.Delay), secs(req.MaxDelay)); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error while encoding response: %s", err)
	}
}
