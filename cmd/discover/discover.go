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

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-instr/pkg/config"
	"jinr.ru/greenlab/go-instr/pkg/srv/discover"
)

const (
	AddressOptionName   = "address"
	PortOptionName      = "port"
	IfaceNameOptionName = "iface-name"
)

func NewListenCommand() *cobra.Command {
	var address, ifaceName string
	var port int
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Start discover server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				cfg.Discover.Address = address
			}
			if port != 0 {
				cfg.Discover.Port = port
			}
			if ifaceName != "" {
				cfg.Discover.Interface = ifaceName
			}
			server, err := discover.NewDiscoverServer(context.Background(), cfg)
			if err != nil {
				return err
			}
			return server.Run()
		},
	}
	cmd.Flags().StringVar(&address, AddressOptionName, "", fmt.Sprintf("Address to bind. E.g. %s", config.DefaultDiscoverAddress))
	cmd.Flags().IntVar(&port, PortOptionName, 0, fmt.Sprintf("Port number to bind. E.g. %d", config.DefaultDiscoverPort))
	cmd.Flags().StringVar(&ifaceName, IfaceNameOptionName, "", "Interface name to listen on. E.g. eth0")

	return cmd
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover listen|list",
		Short: "Discover instruments on the local network",
	}
	cmd.AddCommand(NewListenCommand())
	cmd.AddCommand(NewListCommand())
	return cmd
}
