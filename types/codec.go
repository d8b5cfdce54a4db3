package types

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Fixed-size identifiers are stored as msgpack binary, not as arrays of
// integers, to keep row values compact.

func (a Address) EncodeMsgpack(enc *msgpack.Encoder) error { return enc.EncodeBytes(a[:]) }

func (a *Address) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	if len(raw) != AddressLen {
		return ErrBadAddress
	}
	copy(a[:], raw)
	return nil
}

func (id ObjectID) EncodeMsgpack(enc *msgpack.Encoder) error { return enc.EncodeBytes(id[:]) }

func (id *ObjectID) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	if len(raw) != ObjectIDLen {
		return ErrBadObjectID
	}
	copy(id[:], raw)
	return nil
}

func (d TransactionDigest) EncodeMsgpack(enc *msgpack.Encoder) error { return enc.EncodeBytes(d[:]) }

func (d *TransactionDigest) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	if len(raw) != DigestLen {
		return ErrBadDigest
	}
	copy(d[:], raw)
	return nil
}

func (d ObjectDigest) EncodeMsgpack(enc *msgpack.Encoder) error { return enc.EncodeBytes(d[:]) }

func (d *ObjectDigest) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	if len(raw) != DigestLen {
		return ErrBadDigest
	}
	copy(d[:], raw)
	return nil
}

func (d TransactionEventsDigest) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeBytes(d[:])
}

func (d *TransactionEventsDigest) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	if len(raw) != DigestLen {
		return ErrBadDigest
	}
	copy(d[:], raw)
	return nil
}
