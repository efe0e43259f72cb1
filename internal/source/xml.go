package source

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"github.com/nerrad567/deviceutil/internal/device"
)

// xmlDeviceList mirrors the XML device file:
//
//	<DeviceList>
//	  <Devices>
//	    <Device>
//	      <SrNo/> <Address/> <DevName/> <ModelName/> <Type/>
//	      <CommSetting><PortNo/> <UseSSL/> <Password/></CommSetting>
//	    </Device>
//	  </Devices>
//	</DeviceList>
type xmlDeviceList struct {
	XMLName xml.Name    `xml:"DeviceList"`
	Devices []xmlDevice `xml:"Devices>Device"`
}

type xmlDevice struct {
	SrNo        string          `xml:"SrNo"`
	Address     string          `xml:"Address"`
	DevName     string          `xml:"DevName"`
	ModelName   string          `xml:"ModelName"`
	Type        string          `xml:"Type"`
	CommSetting *xmlCommSetting `xml:"CommSetting"`
}

type xmlCommSetting struct {
	PortNo   string `xml:"PortNo"`
	UseSSL   string `xml:"UseSSL"`
	Password string `xml:"Password"`
}

func (f *File) readXML() ([]device.Device, error) {
	data, err := f.readFile()
	if err != nil {
		return nil, err
	}
	devices, err := decodeXML(bytes.NewReader(data))
	if err != nil {
		return nil, malformed(f.path, err)
	}
	return devices, nil
}

// decodeXML parses a DeviceList document. Exactly one root element is allowed.
func decodeXML(r io.Reader) ([]device.Device, error) {
	dec := xml.NewDecoder(r)

	var doc xmlDeviceList
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("no root element")
		}
		return nil, err
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}

	devices := make([]device.Device, 0, len(doc.Devices))
	for _, d := range doc.Devices {
		devices = append(devices, d.toDevice())
	}
	return devices, nil
}

// expectEOF rejects anything but whitespace, comments and processing
// instructions after the root element.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return errors.New("content after root element: <" + t.Name.Local + ">")
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return errors.New("text after root element")
			}
		}
	}
}

func (d xmlDevice) toDevice() device.Device {
	out := device.Device{
		SerialNumber: d.SrNo,
		Address:      d.Address,
		DeviceName:   d.DevName,
		ModelName:    d.ModelName,
		Type:         device.DeviceType(d.Type),
	}
	if d.CommSetting != nil {
		out.CommSetting = &device.CommSetting{
			PortNo:   d.CommSetting.PortNo,
			UseSSL:   d.CommSetting.UseSSL,
			Password: d.CommSetting.Password,
		}
	}
	return out
}
