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

// Package discover listens for the beacon frames networked instruments
// broadcast on the lab's multicast group, decodes them and keeps a
// database of everything seen, so experimenters can find instruments
// without knowing addresses in advance.
package discover

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"jinr.ru/greenlab/go-instr/pkg/config"
	"jinr.ru/greenlab/go-instr/pkg/log"
	"jinr.ru/greenlab/go-instr/pkg/srv"
)

type DiscoverServer struct {
	srv.Server
	*net.Interface
	state *State
	api   *ApiServer
}

func NewDiscoverServer(ctx context.Context, cfg *config.Config) (*DiscoverServer, error) {
	log.Info("Initializing discover server with address: %s port: %d iface: %s",
		cfg.Discover.Address, cfg.Discover.Port, cfg.Discover.Interface)

	iface, err := net.InterfaceByName(cfg.Discover.Interface)
	if err != nil {
		return nil, err
	}

	uaddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", cfg.Discover.Address, cfg.Discover.Port))
	if err != nil {
		return nil, err
	}

	state, err := NewState(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := &DiscoverServer{
		Server: srv.Server{
			Context: ctx,
			Config:  cfg,
			UDPAddr: uaddr,
			ChIn:    make(chan srv.InPacket),
		},
		Interface: iface,
		state:     state,
	}

	apiServer, err := NewApiServer(ctx, cfg, s)
	if err != nil {
		return nil, err
	}
	s.api = apiServer

	return s, nil
}

func (s *DiscoverServer) Run() error {

	conn, err := net.ListenMulticastUDP("udp", s.Interface, s.UDPAddr)
	if err != nil {
		return err
	}

	defer conn.Close()
	defer s.state.Close()

	errChan := make(chan error, 1)
	buffer := make([]byte, 2048)

	// Read UDP packets from wire and put them to the input queue
	go func() {
		for {
			length, addr, captureErr := conn.ReadFrom(buffer)
			if captureErr != nil {
				errChan <- captureErr
				return
			}

			udpAddr, readErr := net.ResolveUDPAddr("udp", addr.String())
			if readErr != nil {
				errChan <- readErr
				return
			}

			captureInfo := gopacket.CaptureInfo{
				Length:         length,
				CaptureLength:  length,
				InterfaceIndex: s.Interface.Index,
				Timestamp:      time.Now(),
				AncillaryData:  []interface{}{udpAddr},
			}
			packet := srv.InPacket{CaptureInfo: captureInfo, Data: make([]byte, length)}
			copy(packet.Data, buffer[:length])
			s.ChIn <- packet
		}
	}()

	// Read captured packets from the input queue, decode the beacons
	// and update the discover database
	go func() {
		source := gopacket.NewPacketSource(s, layers.LayerTypeLinkLayerDiscovery)
		for packet := range source.Packets() {
			layer := packet.Layer(layers.LayerTypeLinkLayerDiscoveryInfo)
			if layer == nil {
				continue
			}
			info, ok := layer.(*layers.LinkLayerDiscoveryInfo)
			if !ok {
				log.Error("Error while asserting to LinkLayerDiscoveryInfo")
				continue
			}
			id := &InstrumentDescription{}
			DecodeOrgSpecific(info.OrgTLVs, id)
			udpAddr, handleErr := srv.GetAddrPort(packet)
			if handleErr != nil {
				log.Error("Error while getting beacon source address: %s", handleErr)
				continue
			}
			id.SetSource(udpAddr)
			id.SetTimestamp()

			if err := s.state.CreateBucket(BucketName(id.SerialNumber)); err != nil {
				log.Error("Error while creating bucket: instrument: %s", id.SerialNumber)
				continue
			}
			if err := s.state.SetDescription(id); err != nil {
				log.Error("Error while updating instrument description: instrument: %s error: %s", id.SerialNumber, err)
				continue
			}
		}
	}()

	go func() {
		errChan <- s.api.Run()
	}()

	select {
	case <-s.Context.Done():
		return s.Context.Err()
	case err = <-errChan:
		return err
	}
}
