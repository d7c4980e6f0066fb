package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrHistoryNotFound = goerr.New("phone history not found")
	ErrKeyNotFound     = goerr.New("key not found")
	ErrEmptyResponse   = goerr.New("empty response from model")
)

// HistoryIDSeparator splits the character ID from the timestamp in a HistoryID.
const HistoryIDSeparator = "_"

type HistoryID string

// NewHistoryID builds "{characterID}_{unixMillis}".
func NewHistoryID(characterID CharacterID, ts time.Time) HistoryID {
	return HistoryID(fmt.Sprintf("%s%s%d", characterID, HistoryIDSeparator, ts.UnixMilli()))
}

// CharacterID recovers the owner from the ID: everything before the first separator.
func (id HistoryID) CharacterID() CharacterID {
	s, _, _ := strings.Cut(string(id), HistoryIDSeparator)
	return CharacterID(s)
}

// PhoneHistory is an immutable snapshot of one successful generation.
type PhoneHistory struct {
	ID            HistoryID     `json:"id"`
	CharacterID   CharacterID   `json:"characterId"`
	CharacterName string        `json:"characterName"`
	Timestamp     time.Time     `json:"timestamp"`
	Content       *PhoneContent `json:"content"`
}
