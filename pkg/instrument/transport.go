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
	"net"
	"strings"
)

// Transport carries the instrument's command protocol: Ask is the
// query primitive, Write the command primitive.
type Transport interface {
	Ask(cmd string) (string, error)
	Write(cmd string) error
	Close() error
}

// IPTransport is a line-oriented transport over a TCP socket, the
// usual protocol of SCPI-speaking networked instruments. Commands are
// terminated with WriteTermination on the way out; responses are read
// until ReadTermination, which is stripped.
type IPTransport struct {
	conn   net.Conn
	reader *bufio.Reader

	writeTermination string
	readTermination  string
}

// IPOption applies an option to an IPTransport.
type IPOption func(*IPTransport)

// WithWriteTermination sets the suffix appended to outgoing commands.
// Default "\n".
func WithWriteTermination(term string) IPOption {
	return func(t *IPTransport) { t.writeTermination = term }
}

// WithReadTermination sets the suffix ending an incoming response.
// Default "\n". Instruments with a prompt use e.g. "\n> ".
func WithReadTermination(term string) IPOption {
	return func(t *IPTransport) { t.readTermination = term }
}

// DialIP connects to a networked instrument at address ("host:port").
func DialIP(address string, opts ...IPOption) (*IPTransport, error) {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, err
	}
	t := &IPTransport{
		conn:             conn,
		reader:           bufio.NewReader(conn),
		writeTermination: "\n",
		readTermination:  "\n",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *IPTransport) Write(cmd string) error {
	_, err := fmt.Fprintf(t.conn, "%s%s", cmd, t.writeTermination)
	return err
}

func (t *IPTransport) Ask(cmd string) (string, error) {
	if err := t.Write(cmd); err != nil {
		return "", err
	}
	return t.readResponse()
}

// readResponse reads until the read termination appears and returns
// the response with the termination stripped.
func (t *IPTransport) readResponse() (string, error) {
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

func (t *IPTransport) Close() error {
	return t.conn.Close()
}
