// wire.go implements the field framing shared by every handshake.
//
// Wire Format:
//
// All handshake fields and session records travel as length-prefixed blobs:
//
//	+--------+----------+
//	| Length | Payload  |
//	| 4B BE  | Variable |
//	+--------+----------+
//
// Length is a big-endian uint32 and does not include the prefix itself.
// The largest legitimate field is an ML-DSA-65 signature (3309 bytes);
// MaxFieldSize bounds what a peer can make us allocate.
package handshake

import (
	"encoding/binary"
	"io"

	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
)

// writeField writes one length-prefixed field to w.
func writeField(w io.Writer, data []byte) error {
	if len(data) > constants.MaxFieldSize {
		return qerrors.ErrFieldTooLarge
	}

	var prefix [constants.FieldLengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(data)))

	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return nil
}

// readField reads one length-prefixed field from r, enforcing MaxFieldSize.
func readField(r io.Reader) ([]byte, error) {
	var prefix [constants.FieldLengthPrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, qerrors.ErrShortRead
		}
		return nil, err
	}

	length := binary.BigEndian.Uint32(prefix[:])
	if length == 0 {
		return nil, nil
	}
	if length > constants.MaxFieldSize {
		return nil, qerrors.ErrFieldTooLarge
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, qerrors.ErrShortRead
		}
		return nil, err
	}
	return data, nil
}
