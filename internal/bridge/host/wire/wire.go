// Package wire implements the frame codec the bridge uses to talk to the
// host scripting shim. Frames are CBOR maps with integer keys, length-prefixed
// on the stream with a big-endian uint32.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// ProtocolVersion is the frame layout version. The shim rejects mismatches.
const ProtocolVersion = 1

// maxFrameSize bounds a single frame so a corrupted length prefix cannot
// force an unbounded allocation.
const maxFrameSize = 16 << 20

// Frame types.
const (
	FrameRequest  = 0
	FrameResponse = 1
	FrameError    = 2
)

// CBOR map keys. The shim side mirrors this layout exactly.
const (
	keyVersion = 0 // version (uint, always ProtocolVersion)
	keyType    = 1 // frame type (uint)
	keyID      = 2 // request id (uint64, echoed in the reply)
	keyTarget  = 3 // target object handle (uint64, 0 = the application root)
	keyMethod  = 4 // method name (tstr, requests only)
	keyArgs    = 5 // positional arguments (array, optional)
	keyResult  = 6 // result value (any, responses only)
	keyErrKind = 7 // error kind (tstr, error frames only)
	keyErrMsg  = 8 // error message (tstr, error frames only)
)

// Error kinds the shim reports. Anything else is treated as a host fault.
const (
	ErrKindStale           = "stale"
	ErrKindUnsupported     = "unsupported"
	ErrKindUnknownProperty = "unknown_property"
	ErrKindFault           = "fault"
)

// Frame is one decoded protocol frame.
type Frame struct {
	Type    int
	ID      uint64
	Target  uint64
	Method  string
	Args    []any
	Result  any
	ErrKind string
	ErrMsg  string
}

// Request builds a request frame.
func Request(id, target uint64, method string, args ...any) *Frame {
	return &Frame{Type: FrameRequest, ID: id, Target: target, Method: method, Args: args}
}

// Response builds a response frame carrying result.
func Response(id uint64, result any) *Frame {
	return &Frame{Type: FrameResponse, ID: id, Result: result}
}

// ErrorFrame builds an error reply.
func ErrorFrame(id uint64, kind, msg string) *Frame {
	return &Frame{Type: FrameError, ID: id, ErrKind: kind, ErrMsg: msg}
}

// Encode serializes the frame to CBOR bytes.
func Encode(frame *Frame) ([]byte, error) {
	if frame == nil {
		return nil, fmt.Errorf("frame is nil")
	}
	m := map[int]any{
		keyVersion: uint8(ProtocolVersion),
		keyType:    uint8(frame.Type),
		keyID:      frame.ID,
	}
	switch frame.Type {
	case FrameRequest:
		m[keyTarget] = frame.Target
		m[keyMethod] = frame.Method
		if len(frame.Args) > 0 {
			m[keyArgs] = frame.Args
		}
	case FrameResponse:
		if frame.Result != nil {
			m[keyResult] = frame.Result
		}
	case FrameError:
		m[keyErrKind] = frame.ErrKind
		m[keyErrMsg] = frame.ErrMsg
	default:
		return nil, fmt.Errorf("unknown frame type %d", frame.Type)
	}
	return cbor.Marshal(m)
}

// Decode parses CBOR bytes into a Frame, rejecting version mismatches.
func Decode(data []byte) (*Frame, error) {
	var m map[int]any
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	version, ok := asUint(m[keyVersion])
	if !ok || version != ProtocolVersion {
		return nil, fmt.Errorf("unsupported frame version %v", m[keyVersion])
	}
	frameType, ok := asUint(m[keyType])
	if !ok {
		return nil, fmt.Errorf("frame type missing")
	}
	frame := &Frame{Type: int(frameType)}
	if id, ok := asUint(m[keyID]); ok {
		frame.ID = id
	}
	if target, ok := asUint(m[keyTarget]); ok {
		frame.Target = target
	}
	if method, ok := m[keyMethod].(string); ok {
		frame.Method = method
	}
	if args, ok := m[keyArgs].([]any); ok {
		frame.Args = args
	}
	frame.Result = m[keyResult]
	if kind, ok := m[keyErrKind].(string); ok {
		frame.ErrKind = kind
	}
	if msg, ok := m[keyErrMsg].(string); ok {
		frame.ErrMsg = msg
	}
	return frame, nil
}

// WriteFrame encodes frame and writes it length-prefixed to w.
func WriteFrame(w io.Writer, frame *Frame) error {
	data, err := Encode(frame)
	if err != nil {
		return err
	}
	if len(data) > maxFrameSize {
		return fmt.Errorf("frame exceeds %d bytes", maxFrameSize)
	}
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(data)))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadFrame reads one length-prefixed frame from r.
func ReadFrame(r io.Reader) (*Frame, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(prefix[:])
	if size == 0 || size > maxFrameSize {
		return nil, fmt.Errorf("invalid frame size %d", size)
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return Decode(data)
}

// asUint coerces the integer shapes the CBOR decoder may produce.
func asUint(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	}
	return 0, false
}
