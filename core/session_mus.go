package core

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted session record. The session
// is the only type that crosses the storage boundary, so the format is kept
// explicit here instead of generated.

// IDMUS serializes IDs as varint-encoded uint64.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

// ChatMessageMUS serializes one conversation turn.
var ChatMessageMUS = chatMessageMUS{}

type chatMessageMUS struct{}

func (chatMessageMUS) Marshal(m ChatMessage, bs []byte) (n int) {
	n = varint.Int.Marshal(int(m.Role), bs)
	n += ord.String.Marshal(m.Content, bs[n:])
	return n
}

func (chatMessageMUS) Unmarshal(bs []byte) (m ChatMessage, n int, err error) {
	role, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return m, n, err
	}
	m.Role = Role(role)
	if err = ValidateRole(m.Role); err != nil {
		return m, n, err
	}
	var n1 int
	m.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return m, n, err
}

func (chatMessageMUS) Size(m ChatMessage) int {
	return varint.Int.Size(int(m.Role)) + ord.String.Size(m.Content)
}

// SessionMUS serializes a full session record. Timestamps are stored as
// microseconds since the Unix epoch, UTC.
var SessionMUS = sessionMUS{}

type sessionMUS struct{}

func (sessionMUS) Marshal(s Session, bs []byte) (n int) {
	n = IDMUS.Marshal(s.Id, bs)
	n += ord.String.Marshal(s.Title, bs[n:])
	n += varint.Int.Marshal(len(s.Messages), bs[n:])
	for _, m := range s.Messages {
		n += ChatMessageMUS.Marshal(m, bs[n:])
	}
	n += varint.Int64.Marshal(s.CreatedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(s.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (sessionMUS) Unmarshal(bs []byte) (s Session, n int, err error) {
	s.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return s, n, err
	}
	var n1 int
	s.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return s, n, err
	}
	count, n1, err := varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return s, n, err
	}
	if count < 0 {
		return s, n, fmt.Errorf("negative message count: %d", count)
	}
	if count > 0 {
		s.Messages = make([]ChatMessage, count)
		for i := 0; i < count; i++ {
			s.Messages[i], n1, err = ChatMessageMUS.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return s, n, err
			}
		}
	}
	created, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return s, n, err
	}
	updated, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return s, n, err
	}
	s.CreatedAt = time.UnixMicro(created).UTC()
	s.UpdatedAt = time.UnixMicro(updated).UTC()
	return s, n, nil
}

func (sessionMUS) Size(s Session) (size int) {
	size = IDMUS.Size(s.Id)
	size += ord.String.Size(s.Title)
	size += varint.Int.Size(len(s.Messages))
	for _, m := range s.Messages {
		size += ChatMessageMUS.Size(m)
	}
	size += varint.Int64.Size(s.CreatedAt.UnixMicro())
	size += varint.Int64.Size(s.UpdatedAt.UnixMicro())
	return size
}
