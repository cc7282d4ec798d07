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

package instrument

import (
	"bufio"
	"fmt"
	"strings"

	"go.bug.st/serial"
)

const (
	DefaultBaudRate = 9600
)

// SerialTransport is a line-oriented transport over a serial port, for
// bench instruments on RS-232 or USB virtual COM ports.
type SerialTransport struct {
	port   serial.Port
	reader *bufio.Reader

	writeTermination string
	readTermination  string
}

// SerialOption applies an option to a SerialTransport.
type SerialOption func(*SerialTransport)

// WithSerialWriteTermination sets the suffix appended to outgoing
// commands. Default "\n".
func WithSerialWriteTermination(term string) SerialOption {
	return func(t *SerialTransport) { t.writeTermination = term }
}

// WithSerialReadTermination sets the suffix ending an incoming
// response. Default "\n".
func WithSerialReadTermination(term string) SerialOption {
	return func(t *SerialTransport) { t.readTermination = term }
}

// OpenSerial opens the named serial device, e.g. "/dev/ttyUSB0". A
// zero baud rate means DefaultBaudRate.
func OpenSerial(device string, baud int, opts ...SerialOption) (*SerialTransport, error) {
	if baud == 0 {
		baud = DefaultBaudRate
	}
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, err
	}
	t := &SerialTransport{
		port:             port,
		reader:           bufio.NewReader(port),
		writeTermination: "\n",
		readTermination:  "\n",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *SerialTransport) Write(cmd string) error {
	_, err := t.port.Write([]byte(fmt.Sprintf("%s%s", cmd, t.writeTermination)))
	return err
}

func (t *SerialTransport) Ask(cmd string) (string, error) {
	if err := t.Write(cmd); err != nil {
		return "", err
	}
	var sb strings.Builder
	term := t.readTermination
	last := term[len(term)-1]
	for {
		chunk, err := t.reader.ReadString(last)
		sb.WriteString(chunk)
		if err != nil {
			return "", err
		}
		if strings.HasSuffix(sb.String(), term) {
			resp := sb.String()
			return resp[:len(resp)-len(term)], nil
		}
	}
}

func (t *SerialTransport) Close() error {
	return t.port.Close()
}
