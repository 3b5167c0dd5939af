// Package store is the local cache: it persists room transcripts and
// the last room directory snapshot so a rejoined room paints
// immediately while the history fetch is in flight. Cached data is
// seed data only; fetched history always replaces it wholesale.
package store

import (
	"fmt"
	"time"

	"github.com/irobinett3/footy-social/internal/models"
	"go.etcd.io/bbolt"
)

var (
	bucketTranscripts = []byte("transcripts")
	bucketDirectory   = []byte("directory")
)

var directoryKey = []byte("rooms")

type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketTranscripts); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketDirectory); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTranscript stores the transcript of one room for one chat day,
// replacing any previous snapshot.
func (s *Store) SaveTranscript(roomID int64, chatDate string, msgs []models.Message) error {
	transcript := &DBTranscript{
		RoomID:   roomID,
		ChatDate: chatDate,
		Messages: make([]DBMessage, 0, len(msgs)),
	}
	for _, m := range msgs {
		transcript.Messages = append(transcript.Messages, DBMessage{
			ID:        m.ID,
			RoomID:    m.RoomID,
			UserID:    m.UserID,
			Username:  m.Username,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
			ChatDate:  m.ChatDate,
		})
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := transcript.MarshalBinary()
		if err != nil {
			return err
		}
		return tx.Bucket(bucketTranscripts).Put(transcript.Key(), data)
	})
}

// LoadTranscript returns the cached transcript for a room and chat
// day. Returns models.ErrNotFound when nothing is cached.
func (s *Store) LoadTranscript(roomID int64, chatDate string) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.View(func(tx *bbolt.Tx) error {
		lookup := &DBTranscript{RoomID: roomID, ChatDate: chatDate}
		data := tx.Bucket(bucketTranscripts).Get(lookup.Key())
		if data == nil {
			return models.ErrNotFound
		}

		var transcript DBTranscript
		if err := transcript.UnmarshalBinary(data); err != nil {
			return err
		}

		msgs = make([]models.Message, 0, len(transcript.Messages))
		for _, m := range transcript.Messages {
			msgs = append(msgs, models.Message{
				ID:        m.ID,
				RoomID:    m.RoomID,
				UserID:    m.UserID,
				Username:  m.Username,
				Content:   m.Content,
				CreatedAt: m.CreatedAt,
				ChatDate:  m.ChatDate,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// SaveRooms stores the room directory snapshot.
func (s *Store) SaveRooms(rooms []models.Room) error {
	directory := &DBDirectory{Rooms: make([]DBRoom, 0, len(rooms))}
	for _, r := range rooms {
		directory.Rooms = append(directory.Rooms, DBRoom{
			ID:          r.ID,
			TeamName:    r.TeamName,
			DisplayName: r.DisplayName,
			ActiveUsers: r.ActiveUsers,
			IsGlobal:    r.IsGlobal,
		})
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := directory.MarshalBinary()
		if err != nil {
			return err
		}
		return tx.Bucket(bucketDirectory).Put(directoryKey, data)
	})
}

// LoadRooms returns the cached room directory snapshot.
func (s *Store) LoadRooms() ([]models.Room, error) {
	var rooms []models.Room
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketDirectory).Get(directoryKey)
		if data == nil {
			return models.ErrNotFound
		}

		var directory DBDirectory
		if err := directory.UnmarshalBinary(data); err != nil {
			return err
		}

		rooms = make([]models.Room, 0, len(directory.Rooms))
		for _, r := range directory.Rooms {
			rooms = append(rooms, models.Room{
				ID:          r.ID,
				TeamName:    r.TeamName,
				DisplayName: r.DisplayName,
				ActiveUsers: r.ActiveUsers,
				IsGlobal:    r.IsGlobal,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}
