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
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-instr/pkg/command"
	"jinr.ru/greenlab/go-instr/pkg/config"
)

func NewSnapshotCommand() *cobra.Command {
	var instrument string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Show cached snapshot of all instrument parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			snapshot, err := apiClient.ParamGetAll(instrument)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(snapshot))
			for name := range snapshot {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				snap := snapshot[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v %s (%s)\n", name, snap.Value, snap.Unit, snap.Time)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&instrument, InstrumentOptionName, "", "Instrument name")

	return cmd
}
