package store

import (
	"encoding/binary"

	"github.com/vmihailenco/msgpack/v5"
)

type DBMessage struct {
	ID        int64  `msgpack:"id"`
	RoomID    int64  `msgpack:"roomId"`
	UserID    string `msgpack:"userId"`
	Username  string `msgpack:"username"`
	Content   string `msgpack:"content"`
	CreatedAt string `msgpack:"createdAt"`
	ChatDate  string `msgpack:"chatDate"`
}

// DBTranscript is the cached transcript of one room for one chat day.
type DBTranscript struct {
	RoomID   int64       `msgpack:"roomId"`
	ChatDate string      `msgpack:"chatDate"`
	Messages []DBMessage `msgpack:"messages"`
}

func (t *DBTranscript) Key() []byte {
	key := make([]byte, 8, 8+len(t.ChatDate))
	binary.BigEndian.PutUint64(key, uint64(t.RoomID))
	return append(key, t.ChatDate...)
}

func (t *DBTranscript) MarshalBinary() (data []byte, err error) {
	type alias DBTranscript
	return msgpack.Marshal((*alias)(t))
}

func (t *DBTranscript) UnmarshalBinary(data []byte) error {
	type alias DBTranscript
	return msgpack.Unmarshal(data, (*alias)(t))
}

type DBRoom struct {
	ID          int64  `msgpack:"id"`
	TeamName    string `msgpack:"teamName"`
	DisplayName string `msgpack:"displayName"`
	ActiveUsers int    `msgpack:"activeUsers"`
	IsGlobal    bool   `msgpack:"isGlobal"`
}

// DBDirectory is the last fetched room directory snapshot.
type DBDirectory struct {
	Rooms []DBRoom `msgpack:"rooms"`
}

func (d *DBDirectory) MarshalBinary() (data []byte, err error) {
	type alias DBDirectory
	return msgpack.Marshal((*alias)(d))
}

func (d *DBDirectory) UnmarshalBinary(data []byte) error {
	type alias DBDirectory
	return msgpack.Unmarshal(data, (*alias)(d))
}
