package source

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/deviceutil/internal/device"
)

// yamlDeviceList mirrors the YAML device file:
//
//	devices:
//	  - serial_number: "DEV0000000000001"
//	    address: "192.168.1.10"
//	    device_name: "Printer1"
//	    model_name: "LaserJet"
//	    type: "A3"
//	    comm_setting:
//	      port_no: "9100"
//	      use_ssl: "true"
//	      password: "secret123"
//
// Scalars are kept as written, so an unquoted port_no: 0080 stays "0080".
type yamlDeviceList struct {
	Devices []device.Device `yaml:"devices"`
}

func (f *File) readYAML() ([]device.Device, error) {
	data, err := f.readFile()
	if err != nil {
		return nil, err
	}
	devices, err := decodeYAML(bytes.NewReader(data))
	if err != nil {
		return nil, malformed(f.path, err)
	}
	return devices, nil
}

// decodeYAML parses a single devices document. Unknown keys are rejected.
func decodeYAML(r io.Reader) ([]device.Device, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc yamlDeviceList
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty document")
		}
		return nil, err
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("more than one document")
	}

	return doc.Devices, nil
}
