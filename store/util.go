package store

import (
	"encoding/binary"
	"time"
)

const prefixProperty = "TICKETS:PROPERTY:"

func tsToBytes(ts time.Time) []byte {
	buf := make([]byte, 8)
	d := ts.UnixNano()
	binary.BigEndian.PutUint64(buf, uint64(d))
	return buf
}

func idToBytes(id uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, id)
}

func bytesToId(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}
