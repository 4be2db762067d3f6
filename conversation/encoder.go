package conversation

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const (
	recordFormatVersionV1 = 1
)

func Encode(r *Record) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(recordFormatVersionV1)

	if err := writeShortString(&buf, "id", r.ID); err != nil {
		return nil, err
	}
	if err := writeShortString(&buf, "service", r.Service); err != nil {
		return nil, err
	}
	if err := writeShortString(&buf, "user", r.User); err != nil {
		return nil, err
	}
	if err := writeShortString(&buf, "authtok type", r.AuthTokType); err != nil {
		return nil, err
	}

	buf.Write(r.SecretHash[:])

	if err := writeBlob(&buf, "sealed old authtok", r.SealedOldAuthTok); err != nil {
		return nil, err
	}
	if err := writeBlob(&buf, "sealed authtok", r.SealedAuthTok); err != nil {
		return nil, err
	}

	if err := binary.Write(&buf, binary.BigEndian, r.Tries); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, r.Flags); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, r.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, r.UpdatedAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func Decode(data []byte) (*Record, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != recordFormatVersionV1 {
		return nil, errors.New("invalid conversation record version")
	}

	r := &Record{}

	if r.ID, err = readShortString(reader); err != nil {
		return nil, err
	}
	if r.Service, err = readShortString(reader); err != nil {
		return nil, err
	}
	if r.User, err = readShortString(reader); err != nil {
		return nil, err
	}
	if r.AuthTokType, err = readShortString(reader); err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(reader, r.SecretHash[:]); err != nil {
		return nil, err
	}

	if r.SealedOldAuthTok, err = readBlob(reader); err != nil {
		return nil, err
	}
	if r.SealedAuthTok, err = readBlob(reader); err != nil {
		return nil, err
	}

	if err := binary.Read(reader, binary.BigEndian, &r.Tries); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &r.Flags); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &r.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &r.UpdatedAt); err != nil {
		return nil, err
	}

	return r, nil
}

func writeShortString(buf *bytes.Buffer, field, s string) error {
	if len(s) > 255 {
		return errors.New("conversation " + field + " too long")
	}
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
	return nil
}

func readShortString(reader *bytes.Reader) (string, error) {
	n, err := reader.ReadByte()
	if err != nil {
		return "", err
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return "", err
	}
	return string(raw), nil
}

func writeBlob(buf *bytes.Buffer, field string, b []byte) error {
	if len(b) > 65535 {
		return errors.New("conversation " + field + " too large")
	}
	if err := binary.Write(buf, binary.BigEndian, uint16(len(b))); err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func readBlob(reader *bytes.Reader) ([]byte, error) {
	var n uint16
	if err := binary.Read(reader, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return nil, err
	}
	return raw, nil
}
