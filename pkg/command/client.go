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

package command

import (
	"errors"
	"fmt"

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-instr/pkg/command/ifc"
	"jinr.ru/greenlab/go-instr/pkg/config"
	"jinr.ru/greenlab/go-instr/pkg/parameter"
	"jinr.ru/greenlab/go-instr/pkg/srv/control"
	"jinr.ru/greenlab/go-instr/pkg/srv/discover"
)

type ApiClient struct {
	*config.Config
	ApiPrefix         string
	DiscoverApiPrefix string
}

var _ ifc.ApiClient = &ApiClient{}

func NewApiClient(cfg *config.Config) ifc.ApiClient {
	return &ApiClient{
		Config:            cfg,
		ApiPrefix:         fmt.Sprintf("http://%s:%d/api", cfg.IP, control.ApiPort),
		DiscoverApiPrefix: fmt.Sprintf("http://%s:%d/api", cfg.IP, discover.ApiPort),
	}
}

func (c *ApiClient) paramReadUrl(instrument, name string) string {
	return fmt.Sprintf("%s/param/r/%s/%s", c.ApiPrefix, instrument, name)
}

func (c *ApiClient) paramReadAllUrl(instrument string) string {
	return fmt.Sprintf("%s/param/r/%s", c.ApiPrefix, instrument)
}

func (c *ApiClient) paramWriteUrl(instrument string) string {
	return fmt.Sprintf("%s/param/w/%s", c.ApiPrefix, instrument)
}

func (c *ApiClient) paramLatestUrl(instrument, name string) string {
	return fmt.Sprintf("%s/param/latest/%s/%s", c.ApiPrefix, instrument, name)
}

func (c *ApiClient) rampUrl(instrument, name string) string {
	return fmt.Sprintf("%s/ramp/%s/%s", c.ApiPrefix, instrument, name)
}

// ParamGet sends request to read the value of an instrument parameter
// from hardware
func (c *ApiClient) ParamGet(instrument, name string) (*control.ParamValue, error) {
	r, err := req.Get(c.paramReadUrl(instrument, name))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	value := &control.ParamValue{}
	err = r.ToJSON(value)
	if err != nil {
		return nil, err
	}
	return value, nil
}

// ParamGetAll sends request to get the cached snapshot of all
// parameters of an instrument
func (c *ApiClient) ParamGetAll(instrument string) (map[string]*parameter.Snapshot, error) {
	r, err := req.Get(c.paramReadAllUrl(instrument))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	result := make(map[string]*parameter.Snapshot)
	err = r.ToJSON(&result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ParamSet sends request to write the value to an instrument parameter
func (c *ApiClient) ParamSet(instrument, name string, value interface{}) error {
	body := &control.SetRequest{
		Name:  name,
		Value: value,
	}
	r, err := req.Post(c.paramWriteUrl(instrument), req.BodyJSON(body))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// ParamLatest sends request to get the cached value of an instrument
// parameter without touching hardware
func (c *ApiClient) ParamLatest(instrument, name string) (*control.ParamValue, error) {
	r, err := req.Get(c.paramLatestUrl(instrument, name))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	value := &control.ParamValue{}
	err = r.ToJSON(value)
	if err != nil {
		return nil, err
	}
	return value, nil
}

// RampSet sends request to configure stepping and delay of an
// instrument parameter. Times are in seconds.
func (c *ApiClient) RampSet(instrument, name string, step, maxValAge, delay, maxDelay float64) error {
	body := &control.RampRequest{
		Step:      step,
		MaxValAge: maxValAge,
		Delay:     delay,
		MaxDelay:  maxDelay,
	}
	r, err := req.Post(c.rampUrl(instrument, name), req.BodyJSON(body))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// DiscoverList sends request to get the list of discovered instruments
func (c *ApiClient) DiscoverList() ([]*discover.InstrumentDescription, error) {
	r, err := req.Get(fmt.Sprintf("%s/instruments", c.DiscoverApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	var descriptions []*discover.InstrumentDescription
	err = r.ToJSON(&descriptions)
	if err != nil {
		return nil, err
	}
	return descriptions, nil
}
