package cache

import (
	"errors"
	"reflect"

	"github.com/ugorji/go/codec"
)

var msgpackHandle = &codec.MsgpackHandle{}

func init() {
	msgpackHandle.MapType = reflect.TypeOf(map[string]interface{}(nil))
}

// MsgPackEncodeBytes encode data to bytes use msgpack
func MsgPackEncodeBytes(data interface{}) (bytes []byte, err error) {
	enc := codec.NewEncoderBytes(&bytes, msgpackHandle)
	err = enc.Encode(data)
	return
}

// MsgPackDecodeBytes decode bytes to dest use msgpack
func MsgPackDecodeBytes(bytes []byte, dest interface{}) (err error) {
	if len(bytes) == 0 {
		return errors.New("nil bytes to decode")
	}
	dec := codec.NewDecoderBytes(bytes, msgpackHandle)
	err = dec.Decode(dest)
	return
}

// MsgPackEncodeInt64 encode v as a msgpack integer
func MsgPackEncodeInt64(v int64) ([]byte, error) {
	return MsgPackEncodeBytes(v)
}

// MsgPackDecodeInt64 decode a msgpack integer written by MsgPackEncodeInt64
func MsgPackDecodeInt64(bytes []byte) (v int64, err error) {
	err = MsgPackDecodeBytes(bytes, &v)
	return
}
