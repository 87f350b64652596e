// Package session keeps the per-chat conversation state.
package session

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/chartbot/internal/domain"
)

// DefaultCapacity number of chats remembered when none is configured.
const DefaultCapacity = 10000

// Store maps chat ids to the selected language. It is bounded; an evicted
// chat simply falls back to the default language.
type Store struct {
	languages *lru.Cache[int64, domain.Language]
}

// NewStore creates a store that remembers up to capacity chats.
func NewStore(capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cache, err := lru.New[int64, domain.Language](capacity)
	if err != nil {
		return nil, errors.Wrap(err, "create session cache")
	}
	return &Store{languages: cache}, nil
}

// Language returns the chat's language, or the default for unknown chats.
func (s *Store) Language(chatID int64) domain.Language {
	if lang, ok := s.languages.Get(chatID); ok {
		return lang
	}
	return domain.DefaultLanguage
}

// SetLanguage records the chat's language. Invalid values are ignored.
func (s *Store) SetLanguage(chatID int64, lang domain.Language) {
	if !lang.Valid() {
		return
	}
	s.languages.Add(chatID, lang)
}

// Len returns the number of chats currently tracked.
func (s *Store) Len() int {
	return s.languages.Len()
}
