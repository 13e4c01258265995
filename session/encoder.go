package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"time"
)

const sessionFormatVersionCurrent = 1

// Encode serializes a session for Redis storage: version byte,
// length-prefixed username and roles, then BigEndian unix-second
// timestamps. The token is the storage key and is not encoded.
func Encode(s *Session) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(sessionFormatVersionCurrent)

	if len(s.Username) > 255 {
		return nil, errors.New("username too long")
	}
	buf.WriteByte(byte(len(s.Username)))
	buf.WriteString(s.Username)

	if len(s.Roles) > 255 {
		return nil, errors.New("too many roles")
	}
	buf.WriteByte(byte(len(s.Roles)))
	for _, role := range s.Roles {
		if len(role) > 255 {
			return nil, errors.New("role name too long")
		}
		buf.WriteByte(byte(len(role)))
		buf.WriteString(role)
	}

	for _, ts := range []int64{s.CreatedAt.Unix(), s.ExpiresAt.Unix(), s.LastActivity.Unix()} {
		if err := binary.Write(&buf, binary.BigEndian, ts); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// Decode reverses [Encode].
func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != sessionFormatVersionCurrent {
		return nil, errors.New("invalid session version")
	}

	s := &Session{}

	userLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	username := make([]byte, userLen)
	if _, err := io.ReadFull(reader, username); err != nil {
		return nil, err
	}
	s.Username = string(username)

	roleCount, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if roleCount > 0 {
		s.Roles = make([]string, 0, roleCount)
	}
	for i := 0; i < int(roleCount); i++ {
		roleLen, err := reader.ReadByte()
		if err != nil {
			return nil, err
		}
		role := make([]byte, roleLen)
		if _, err := io.ReadFull(reader, role); err != nil {
			return nil, err
		}
		s.Roles = append(s.Roles, string(role))
	}

	var createdAt, expiresAt, lastActivity int64
	if err := binary.Read(reader, binary.BigEndian, &createdAt); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &expiresAt); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &lastActivity); err != nil {
		return nil, err
	}

	s.CreatedAt = time.Unix(createdAt, 0)
	s.ExpiresAt = time.Unix(expiresAt, 0)
	s.LastActivity = time.Unix(lastActivity, 0)

	return s, nil
}
