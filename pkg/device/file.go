package device

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// registryFile is the on-disk layout of a device table:
//
//	devices:
//	  - id: led
//	    name: LED
//	  - id: pump
//	    on_phrase: "water on"
//	    off_phrase: "water off"
//	    on_code: "9"
//	    off_code: "8"
//
// Phrases default to "<id> on"/"<id> off" and codes to the positional pair.
type registryFile struct {
	Devices []fileEntry `yaml:"devices"`
}

type fileEntry struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	OnPhrase  string `yaml:"on_phrase"`
	OffPhrase string `yaml:"off_phrase"`
	OnCode    string `yaml:"on_code"`
	OffCode   string `yaml:"off_code"`
}

// LoadRegistryFile reads a YAML device table and builds a registry from it.
func LoadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading device file: %w", err)
	}
	return ParseRegistry(data)
}

// ParseRegistry builds a registry from YAML bytes.
func ParseRegistry(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing device file: %w", err)
	}
	if len(f.Devices) == 0 {
		return nil, fmt.Errorf("%w: device file lists no devices", ErrInvalidDevice)
	}

	devices := make([]Device, 0, len(f.Devices))
	for i, e := range f.Devices {
		d := DeviceFor(e.ID, e.Name, i)
		if e.OnPhrase != "" {
			d.OnPhrase = e.OnPhrase
		}
		if e.OffPhrase != "" {
			d.OffPhrase = e.OffPhrase
		}
		if e.OnCode != "" {
			code, err := singleByte(e.OnCode)
			if err != nil {
				return nil, fmt.Errorf("device %q on_code: %w", e.ID, err)
			}
			d.OnCode = code
		}
		if e.OffCode != "" {
			code, err := singleByte(e.OffCode)
			if err != nil {
				return nil, fmt.Errorf("device %q off_code: %w", e.ID, err)
			}
			d.OffCode = code
		}
		devices = append(devices, d)
	}

	return NewRegistry(devices...)
}

func singleByte(s string) (byte, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: code %q must be exactly one byte", ErrInvalidDevice, s)
	}
	return s[0], nil
}
