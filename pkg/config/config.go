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

package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Instrument describes one piece of hardware the framework talks to.
// Kind selects the driver, Address/Port or Device/Baud select the
// transport depending on whether the instrument is networked or serial.
type Instrument struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Address string `yaml:"address,omitempty"`
	Port    int    `yaml:"port,omitempty"`
	Device  string `yaml:"device,omitempty"`
	Baud    int    `yaml:"baud,omitempty"`
}

type DiscoverConfig struct {
	Address   string `yaml:"address,omitempty"`
	Port      int    `yaml:"port,omitempty"`
	Interface string `yaml:"interface"`
}

type Config struct {
	LogLevel    string        `yaml:"log_level"`
	IP          string        `yaml:"ip"`
	Instruments []*Instrument `yaml:"instruments"`
	Discover    *DiscoverConfig `yaml:"discover,omitempty"`
	filepath    string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	err = ioutil.WriteFile(c.filepath, data, 0644)
	if err != nil {
		return err
	}

	return nil
}

func (c *Config) Load() error {
	data, err := ioutil.ReadFile(c.filepath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) GetInstrumentByName(name string) *Instrument {
	for _, instr := range c.Instruments {
		if instr.Name == name {
			return instr
		}
	}
	return nil
}

func (c *Config) SetPath(path string) {
	c.filepath = path
}

func (c *Config) StateDBPath() string {
	return filepath.Join(filepath.Dir(c.filepath), StateFile)
}

func (c *Config) DiscoverDBPath() string {
	return filepath.Join(filepath.Dir(c.filepath), DiscoverFile)
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		IP:       DefaultIP,
		Discover: &DiscoverConfig{
			Address:   DefaultDiscoverAddress,
			Port:      DefaultDiscoverPort,
			Interface: DefaultDiscoverInterface,
		},
		Instruments: []*Instrument{
			{
				Name: "sim1",
				Kind: KindSim,
			},
		},
		filepath: DefaultConfigPath(),
	}
}
