package protocol

import "github.com/gork-labs/sealed/pkg/serial"

var (
	stringMessageDescriptor = serial.Class("StringMessage",
		serial.Field("description", serial.String().Descriptor()),
		serial.Field("message", serial.String().Descriptor()))
	intMessageDescriptor = serial.Class("IntMessage",
		serial.Field("description", serial.String().Descriptor()),
		serial.Field("message", serial.Int64().Descriptor()))
	errorMessageDescriptor = serial.Class("ErrorMessage",
		serial.Field("error", serial.String().Descriptor()))
)

type stringMessageCodec struct{}

func (stringMessageCodec) Descriptor() *serial.Descriptor { return stringMessageDescriptor }

func (stringMessageCodec) Encode(enc serial.Encoder, m StringMessage) error {
	d := stringMessageDescriptor
	return serial.EncodeStructure(enc, d, func(ce serial.CompositeEncoder) error {
		if err := ce.EncodeStringElement(d, 0, m.Description); err != nil {
			return err
		}
		return ce.EncodeStringElement(d, 1, m.Message)
	})
}

func (stringMessageCodec) Decode(dec serial.Decoder) (StringMessage, error) {
	var m StringMessage
	d := stringMessageDescriptor
	err := serial.DecodeStructure(dec, d, func(cd serial.CompositeDecoder, index int) (err error) {
		switch index {
		case 0:
			m.Description, err = cd.DecodeStringElement(d, index)
		case 1:
			m.Message, err = cd.DecodeStringElement(d, index)
		}
		return err
	})
	return m, err
}

type intMessageCodec struct{}

func (intMessageCodec) Descriptor() *serial.Descriptor { return intMessageDescriptor }

func (intMessageCodec) Encode(enc serial.Encoder, m IntMessage) error {
	d := intMessageDescriptor
	return serial.EncodeStructure(enc, d, func(ce serial.CompositeEncoder) error {
		if err := ce.EncodeStringElement(d, 0, m.Description); err != nil {
			return err
		}
		return ce.EncodeInt64Element(d, 1, m.Message)
	})
}

func (intMessageCodec) Decode(dec serial.Decoder) (IntMessage, error) {
	var m IntMessage
	d := intMessageDescriptor
	err := serial.DecodeStructure(dec, d, func(cd serial.CompositeDecoder, index int) (err error) {
		switch index {
		case 0:
			m.Description, err = cd.DecodeStringElement(d, index)
		case 1:
			m.Message, err = cd.DecodeInt64Element(d, index)
		}
		return err
	})
	return m, err
}

type errorMessageCodec struct{}

func (errorMessageCodec) Descriptor() *serial.Descriptor { return errorMessageDescriptor }

func (errorMessageCodec) Encode(enc serial.Encoder, m ErrorMessage) error {
	d := errorMessageDescriptor
	return serial.EncodeStructure(enc, d, func(ce serial.CompositeEncoder) error {
		return ce.EncodeStringElement(d, 0, m.Error)
	})
}

func (errorMessageCodec) Decode(dec serial.Decoder) (ErrorMessage, error) {
	var m ErrorMessage
	d := errorMessageDescriptor
	err := serial.DecodeStructure(dec, d, func(cd serial.CompositeDecoder, index int) (err error) {
		m.Error, err = cd.DecodeStringElement(d, index)
		return err
	})
	return m, err
}
