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
	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-instr/pkg/command"
	"jinr.ru/greenlab/go-instr/pkg/config"
)

func NewRampCommand() *cobra.Command {
	var instrument, name string
	var step, maxValAge, delay, maxDelay float64
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "ramp",
		Short: "Configure stepping and delay of a parameter",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			return apiClient.RampSet(instrument, name, step, maxValAge, delay, maxDelay)
		},
	}
	cmd.Flags().StringVar(&instrument, InstrumentOptionName, "", "Instrument name")
	cmd.Flags().StringVar(&name, NameOptionName, "", "Parameter name")
	cmd.Flags().Float64Var(&step, StepOptionName, 0, "Maximum step size")
	cmd.Flags().Float64Var(&maxValAge, MaxValAgeOptionName, 0, "Maximum age of the cached start value in seconds")
	cmd.Flags().Float64Var(&delay, DelayOptionName, 0, "Delay between steps in seconds")
	cmd.Flags().Float64Var(&maxDelay, MaxDelayOptionName, 0, "Delay tolerance in seconds, must not be less than delay")

	return cmd
}
