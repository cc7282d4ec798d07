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
)

const (
	InstrumentOptionName = "instrument"
	NameOptionName       = "name"
	ValueOptionName      = "value"
	StepOptionName       = "step"
	MaxValAgeOptionName  = "max-val-age"
	DelayOptionName      = "delay"
	MaxDelayOptionName   = "max-delay"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "param get|set|latest|snapshot|ramp",
		Short: "Read and write instrument parameters",
	}
	cmd.AddCommand(NewGetCommand())
	cmd.AddCommand(NewSetCommand())
	cmd.AddCommand(NewLatestCommand())
	cmd.AddCommand(NewSnapshotCommand())
	cmd.AddCommand(NewRampCommand())
	return cmd
}
