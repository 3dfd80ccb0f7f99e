package vault

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const recordVersionV1 = 1

const maxTokenLen = 65535

func encodeRecord(pair Pair) ([]byte, error) {
	if !pair.Valid() {
		return nil, ErrIncompletePair
	}
	if len(pair.AccessToken) > maxTokenLen || len(pair.RefreshToken) > maxTokenLen {
		return nil, errors.New("vault: token too long")
	}

	var buf bytes.Buffer

	buf.WriteByte(recordVersionV1)

	if err := binary.Write(&buf, binary.BigEndian, uint16(len(pair.AccessToken))); err != nil {
		return nil, err
	}
	buf.WriteString(pair.AccessToken)

	if err := binary.Write(&buf, binary.BigEndian, uint16(len(pair.RefreshToken))); err != nil {
		return nil, err
	}
	buf.WriteString(pair.RefreshToken)

	return buf.Bytes(), nil
}

func decodeRecord(data []byte) (Pair, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return Pair{}, fmt.Errorf("%w: empty record", ErrCorrupt)
	}
	if version != recordVersionV1 {
		return Pair{}, fmt.Errorf("%w: unknown record version %d", ErrCorrupt, version)
	}

	access, err := readToken(reader)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := readToken(reader)
	if err != nil {
		return Pair{}, err
	}
	if reader.Len() != 0 {
		return Pair{}, fmt.Errorf("%w: trailing bytes", ErrCorrupt)
	}

	pair := Pair{AccessToken: access, RefreshToken: refresh}
	if !pair.Valid() {
		// A half pair can only come from a tampered or truncated record.
		return Pair{}, fmt.Errorf("%w: incomplete pair", ErrCorrupt)
	}

	return pair, nil
}

func readToken(reader *bytes.Reader) (string, error) {
	var length uint16
	if err := binary.Read(reader, binary.BigEndian, &length); err != nil {
		return "", fmt.Errorf("%w: truncated length", ErrCorrupt)
	}

	token := make([]byte, length)
	if _, err := io.ReadFull(reader, token); err != nil {
		return "", fmt.Errorf("%w: truncated token", ErrCorrupt)
	}

	return string(token), nil
}
