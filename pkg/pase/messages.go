package pase

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Message types.
const (
	// MsgPASERequest carries the client public value and identity.
	MsgPASERequest uint8 = 1

	// MsgPASEResponse carries the server public value.
	MsgPASEResponse uint8 = 2

	// MsgPASEConfirm carries the client confirmation.
	MsgPASEConfirm uint8 = 3

	// MsgPASEComplete carries the server confirmation and status.
	MsgPASEComplete uint8 = 4

	// MsgPASEError aborts the exchange.
	MsgPASEError uint8 = 255
)

// Error codes carried in PASEComplete and PASEError.
const (
	ErrCodeSuccess          uint8 = 0
	ErrCodeInvalidPublicKey uint8 = 1
	ErrCodeConfirmFailed    uint8 = 2
	ErrCodeUnexpected       uint8 = 3
	ErrCodeWindowClosed     uint8 = 4
	ErrCodeBusy             uint8 = 5
	ErrCodeInternalError    uint8 = 255
)

// ErrInvalidMessage is returned for undecodable or unexpected messages.
var ErrInvalidMessage = errors.New("invalid PASE message")

// PASERequest opens the exchange.
// CBOR: { 1: msgType, 2: publicValue, 3: clientIdentity }
type PASERequest struct {
	MsgType        uint8  `cbor:"1,keyasint"`
	PublicValue    []byte `cbor:"2,keyasint"` // pA
	ClientIdentity []byte `cbor:"3,keyasint"`
}

// PASEResponse answers a request.
// CBOR: { 1: msgType, 2: publicValue, 3: serverIdentity }
type PASEResponse struct {
	MsgType        uint8  `cbor:"1,keyasint"`
	PublicValue    []byte `cbor:"2,keyasint"` // pB
	ServerIdentity []byte `cbor:"3,keyasint,omitempty"`
}

// PASEConfirm carries the client confirmation MAC.
// CBOR: { 1: msgType, 2: confirmation }
type PASEConfirm struct {
	MsgType      uint8  `cbor:"1,keyasint"`
	Confirmation []byte `cbor:"2,keyasint"`
}

// PASEComplete carries the server confirmation MAC and the result.
// CBOR: { 1: msgType, 2: confirmation, 3: errorCode }
type PASEComplete struct {
	MsgType      uint8  `cbor:"1,keyasint"`
	Confirmation []byte `cbor:"2,keyasint"`
	ErrorCode    uint8  `cbor:"3,keyasint"`
}

// PASEError aborts the exchange.
// CBOR: { 1: msgType, 2: errorCode, 3: message }
type PASEError struct {
	MsgType   uint8  `cbor:"1,keyasint"`
	ErrorCode uint8  `cbor:"2,keyasint"`
	Message   string `cbor:"3,keyasint,omitempty"`
}

// Error implements error so a received PASEError can be returned as is.
func (e *PASEError) Error() string {
	return fmt.Sprintf("peer aborted PASE: %s (code %d)", e.Message, e.ErrorCode)
}

// EncodeMessage encodes one of the PASE message types.
func EncodeMessage(msg any) ([]byte, error) {
	switch msg.(type) {
	case *PASERequest, *PASEResponse, *PASEConfirm, *PASEComplete, *PASEError:
	default:
		return nil, fmt.Errorf("%w: cannot encode %T", ErrInvalidMessage, msg)
	}
	return cbor.Marshal(msg)
}

// DecodeMessage decodes a message by its type field.
func DecodeMessage(data []byte) (any, error) {
	var header struct {
		MsgType uint8 `cbor:"1,keyasint"`
	}
	if err := cbor.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	var msg any
	switch header.MsgType {
	case MsgPASERequest:
		msg = &PASERequest{}
	case MsgPASEResponse:
		msg = &PASEResponse{}
	case MsgPASEConfirm:
		msg = &PASEConfirm{}
	case MsgPASEComplete:
		msg = &PASEComplete{}
	case MsgPASEError:
		msg = &PASEError{}
	default:
		return nil, fmt.Errorf("%w: unknown type %d", ErrInvalidMessage, header.MsgType)
	}
	if err := cbor.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return msg, nil
}

// MarshalVerifier encodes a verifier for storage.
func MarshalVerifier(v *Verifier) ([]byte, error) {
	return cbor.Marshal(v)
}

// UnmarshalVerifier decodes a stored verifier.
func UnmarshalVerifier(data []byte) (*Verifier, error) {
	var v Verifier
	if err := cbor.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVerifier, err)
	}
	return &v, nil
}
