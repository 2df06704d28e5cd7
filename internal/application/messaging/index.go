package messaging

import (
	"sort"
	"strings"
	"sync"
	"time"

	"botsales-backend/internal/domain"

	"github.com/google/uuid"
)

// ListingResolver lets the index reject conversations about unknown listings.
type ListingResolver interface {
	GetListing(id string) (domain.Listing, bool)
}

// Index stores conversations and messages and keeps a per-user unread counter
// in step with every write.
type Index struct {
	mu sync.RWMutex

	conversations []*domain.Conversation
	byID          map[string]*domain.Conversation
	byPair        map[pairKey]string
	messages      map[string][]*domain.Message
	unread        map[string]int

	listings ListingResolver
	now      func() time.Time
	newID    func() string
}

type pairKey struct {
	listingID string
	low, high string
}

func keyFor(listingID, a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{listingID: listingID, low: a, high: b}
}

type Option func(*Index)

func WithListings(r ListingResolver) Option {
	return func(ix *Index) { ix.listings = r }
}

func WithClock(now func() time.Time) Option {
	return func(ix *Index) { ix.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(ix *Index) { ix.newID = gen }
}

func NewIndex(opts ...Option) *Index {
	ix := &Index{
		byID:     make(map[string]*domain.Conversation),
		byPair:   make(map[pairKey]string),
		messages: make(map[string][]*domain.Message),
		unread:   make(map[string]int),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// StartConversation returns the id of the conversation between the two participants
// about listingID, creating it when none exists. Participant order does not matter.
func (ix *Index) StartConversation(listingID string, participants []string) (string, error) {
	if len(participants) != 2 {
		return "", domain.ErrInvalidParticipants
	}
	a, b := strings.TrimSpace(participants[0]), strings.TrimSpace(participants[1])
	if a == "" || b == "" || a == b {
		return "", domain.ErrInvalidParticipants
	}

	key := keyFor(listingID, a, b)
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if id, ok := ix.byPair[key]; ok {
		return id, nil
	}
	// only new threads need a live listing; existing ones outlive it
	if ix.listings != nil {
		if _, ok := ix.listings.GetListing(listingID); !ok {
			return "", domain.ErrListingNotFound
		}
	}
	now := ix.now()
	c := &domain.Conversation{
		ID:           ix.newID(),
		ListingID:    listingID,
		Participants: [2]string{a, b},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	ix.conversations = append([]*domain.Conversation{c}, ix.conversations...)
	ix.byID[c.ID] = c
	ix.byPair[key] = c.ID
	return c.ID, nil
}

// SendMessage appends an unread message. Content is stored trimmed.
func (ix *Index) SendMessage(conversationID, senderID, content string) (domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Message{}, domain.ErrEmptyMessage
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	c, ok := ix.byID[conversationID]
	if !ok {
		return domain.Message{}, domain.ErrConversationNotFound
	}
	if !c.HasParticipant(senderID) {
		return domain.Message{}, domain.ErrNotParticipant
	}
	m := &domain.Message{
		ID:             ix.newID(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      ix.now(),
	}
	ix.messages[conversationID] = append(ix.messages[conversationID], m)
	last := *m
	c.LastMessage = &last
	c.UpdatedAt = m.CreatedAt
	ix.unread[c.Counterpart(senderID)]++
	return *m, nil
}

func (ix *Index) GetConversation(id string) (domain.Conversation, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	c, ok := ix.byID[id]
	if !ok {
		return domain.Conversation{}, false
	}
	return c.Clone(), true
}

// GetConversationsByUser lists the user's conversations, most recently active first.
func (ix *Index) GetConversationsByUser(userID string) []domain.Conversation {
	ix.mu.RLock()
	out := make([]domain.Conversation, 0)
	for _, c := range ix.conversations {
		if c.HasParticipant(userID) {
			out = append(out, c.Clone())
		}
	}
	ix.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

// GetMessagesByConversation returns the thread oldest first.
func (ix *Index) GetMessagesByConversation(conversationID string) []domain.Message {
	ix.mu.RLock()
	msgs := ix.messages[conversationID]
	out := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, *m)
	}
	ix.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// MarkAsRead marks every message in the conversation not sent by userID as read
// and returns how many flipped. Unknown conversations are ignored.
func (ix *Index) MarkAsRead(conversationID, userID string) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	c, ok := ix.byID[conversationID]
	if !ok {
		return 0
	}
	n := 0
	for _, m := range ix.messages[conversationID] {
		if m.SenderID != userID && !m.Read {
			m.Read = true
			ix.unread[c.Counterpart(m.SenderID)]--
			n++
		}
	}
	if c.LastMessage != nil && c.LastMessage.SenderID != userID {
		c.LastMessage.Read = true
	}
	return n
}

// GetUnreadCount is the number of unread messages addressed to userID.
func (ix *Index) GetUnreadCount(userID string) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.unread[userID]
}

// CountUnread recomputes the unread count by scanning every conversation.
func (ix *Index) CountUnread(userID string) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	n := 0
	for _, c := range ix.conversations {
		if !c.HasParticipant(userID) {
			continue
		}
		for _, m := range ix.messages[c.ID] {
			if m.SenderID != userID && !m.Read {
				n++
			}
		}
	}
	return n
}
