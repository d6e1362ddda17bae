// Package protocol is a small message protocol expressed as a sealed union.
// The CLI uses it to demonstrate format conversion and schema export.
package protocol

import (
	"reflect"

	"github.com/gork-labs/sealed/pkg/sealed"
	"github.com/gork-labs/sealed/pkg/serial"
)

// Name is the union name of Message.
const Name = "Message"

// Message is one protocol message.
type Message interface {
	isMessage()
}

// StringMessage carries text.
type StringMessage struct {
	Description string `validate:"required"`
	Message     string
}

// IntMessage carries a number.
type IntMessage struct {
	Description string `validate:"required"`
	Message     int64
}

// ErrorMessage asks the peer to stop.
type ErrorMessage struct {
	Error string `validate:"required"`
}

// EOF marks the end of a stream.
type EOF struct{}

// DiscriminatorValue keeps the wire name short.
func (EOF) DiscriminatorValue() string { return "EOF" }

func (StringMessage) isMessage() {}
func (IntMessage) isMessage()    {}
func (ErrorMessage) isMessage()  {}
func (EOF) isMessage()           {}

// New builds the Message codec.
func New(opts ...sealed.Option) (*sealed.Codec[Message, reflect.Type], error) {
	return sealed.Of(Name, []sealed.Variant[Message]{
		sealed.Case[Message, StringMessage](stringMessageCodec{}),
		sealed.Case[Message, IntMessage](intMessageCodec{}),
		sealed.Case[Message, ErrorMessage](errorMessageCodec{}),
		sealed.Case[Message, EOF](serial.Object("protocol.EOF", EOF{})),
	}, opts...)
}

// Stream returns a codec for a sequence of messages written with c.
func Stream(c serial.Codec[Message]) serial.Codec[[]Message] {
	return serial.List(c)
}
