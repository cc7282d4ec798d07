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

package control

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-instr/pkg/config"
	"jinr.ru/greenlab/go-instr/pkg/parameter"
)

func newTestApi(t *testing.T) (*ApiServer, *ControlServer) {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.SetPath(filepath.Join(t.TempDir(), "config"))
	cfg.Instruments = []*config.Instrument{
		{Name: "sim1", Kind: config.KindSim},
	}

	ctrl, err := NewControlServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { ctrl.Close() })

	api := ctrl.api.(*ApiServer)
	api.ConfigureRouter()
	return api, ctrl
}

func doJSON(t *testing.T, api *ApiServer, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	api.Router.ServeHTTP(rec, req)
	return rec
}

func TestParamGetEndpoint(t *testing.T) {
	api, _ := newTestApi(t)

	rec := doJSON(t, api, http.MethodGet, "/api/param/r/sim1/voltage", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	pv := &ParamValue{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), pv))
	assert.Equal(t, "voltage", pv.Name)
	assert.Equal(t, 0.0, pv.Value)
	assert.NotEmpty(t, pv.Time)
}

func TestParamGetUnknownNames(t *testing.T) {
	api, _ := newTestApi(t)

	rec := doJSON(t, api, http.MethodGet, "/api/param/r/nope/voltage", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, api, http.MethodGet, "/api/param/r/sim1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParamSetEndpoint(t *testing.T) {
	api, ctrl := newTestApi(t)

	rec := doJSON(t, api, http.MethodPost, "/api/param/w/sim1",
		&SetRequest{Name: "voltage", Value: 1.0})
	require.Equal(t, http.StatusOK, rec.Code)

	inst, err := ctrl.GetInstrumentByName("sim1")
	require.NoError(t, err)
	p, err := inst.Parameter("voltage")
	require.NoError(t, err)
	v, _ := p.Latest()
	assert.Equal(t, 1.0, v)

	// the write also lands in the state database
	snap, err := ctrl.state.GetParam("sim1", "voltage")
	require.NoError(t, err)
	assert.Equal(t, 1.0, snap.Value)
}

func TestParamSetRejectsInvalidValue(t *testing.T) {
	api, _ := newTestApi(t)

	rec := doJSON(t, api, http.MethodPost, "/api/param/w/sim1",
		&SetRequest{Name: "voltage", Value: 100.0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "sim1:voltage")
}

func TestParamLatestEndpoint(t *testing.T) {
	api, _ := newTestApi(t)

	// never measured yet
	rec := doJSON(t, api, http.MethodGet, "/api/param/latest/sim1/frequency", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pv := &ParamValue{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), pv))
	assert.Nil(t, pv.Value)
	assert.Empty(t, pv.Time)

	doJSON(t, api, http.MethodGet, "/api/param/r/sim1/frequency", nil)

	rec = doJSON(t, api, http.MethodGet, "/api/param/latest/sim1/frequency", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), pv))
	assert.Equal(t, 50.0, pv.Value)
	assert.NotEmpty(t, pv.Time)
}

func TestParamGetAllEndpoint(t *testing.T) {
	api, _ := newTestApi(t)

	doJSON(t, api, http.MethodGet, "/api/param/r/sim1/voltage", nil)

	rec := doJSON(t, api, http.MethodGet, "/api/param/r/sim1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	snaps := map[string]*parameter.Snapshot{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snaps))
	require.Contains(t, snaps, "voltage")
	require.Contains(t, snaps, "frequency")
	require.Contains(t, snaps, "output")
	assert.Equal(t, 0.0, snaps["voltage"].Value)
	assert.Equal(t, false, snaps["output"].Value)
}

func TestRampEndpoint(t *testing.T) {
	api, ctrl := newTestApi(t)

	rec := doJSON(t, api, http.MethodPost, "/api/ramp/sim1/voltage",
		&RampRequest{Step: 2, Delay: 0.001, MaxDelay: 0.002})
	require.Equal(t, http.StatusOK, rec.Code)

	inst, err := ctrl.GetInstrumentByName("sim1")
	require.NoError(t, err)
	p, err := inst.Parameter("voltage")
	require.NoError(t, err)
	sp := p.(*parameter.StandardParameter)
	assert.Equal(t, 2.0, sp.Step())
}

func TestRampRejectsManualParameter(t *testing.T) {
	api, _ := newTestApi(t)

	rec := doJSON(t, api, http.MethodPost, "/api/ramp/sim1/output",
		&RampRequest{Step: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRampRejectsBadStep(t *testing.T) {
	api, _ := newTestApi(t)

	rec := doJSON(t, api, http.MethodPost, "/api/ramp/sim1/voltage",
		&RampRequest{Step: -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
