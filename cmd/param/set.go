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

package param

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-instr/pkg/command"
	"jinr.ru/greenlab/go-instr/pkg/config"
)

// parseValue turns the command line string into a typed value.
// Numbers and booleans are passed through as such, everything else
// stays a string.
func parseValue(s string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

func NewSetCommand() *cobra.Command {
	var instrument, name, value string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set parameter value",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			return apiClient.ParamSet(instrument, name, parseValue(value))
		},
	}
	cmd.Flags().StringVar(&instrument, InstrumentOptionName, "", "Instrument name")
	cmd.Flags().StringVar(&name, NameOptionName, "", "Parameter name")
	cmd.Flags().StringVar(&value, ValueOptionName, "", "Value to set")

	return cmd
}
