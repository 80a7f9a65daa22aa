package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// Binary session format. Version 1 predates account-status capture; version
// 2 appends the status byte after the role byte. Decode accepts both so
// sessions written before an upgrade keep working until they expire.
const (
	sessionFormatVersionCurrent = 2
	sessionFormatVersionV1      = 1
)

func Encode(s *Session) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(sessionFormatVersionCurrent)

	if len(s.SubjectID) > 255 {
		return nil, errors.New("subjectID too long")
	}
	buf.WriteByte(byte(len(s.SubjectID)))
	buf.WriteString(s.SubjectID)

	buf.WriteByte(s.RoleID)
	buf.WriteByte(s.StatusID)

	if err := binary.Write(&buf, binary.BigEndian, s.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, s.ExpiresAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != sessionFormatVersionCurrent && version != sessionFormatVersionV1 {
		return nil, errors.New("invalid session version")
	}

	s := &Session{}

	subjectLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	subjectID := make([]byte, subjectLen)
	if _, err := io.ReadFull(reader, subjectID); err != nil {
		return nil, err
	}
	s.SubjectID = string(subjectID)

	roleID, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	s.RoleID = roleID

	if version == sessionFormatVersionCurrent {
		statusID, err := reader.ReadByte()
		if err != nil {
			return nil, err
		}
		s.StatusID = statusID
	}

	if err := binary.Read(reader, binary.BigEndian, &s.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &s.ExpiresAt); err != nil {
		return nil, err
	}

	return s, nil
}
