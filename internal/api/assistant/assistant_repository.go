package assistant

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/tripweaver/go-trip-planner/internal/types"
)

// session is one conversation's in-memory state. The transcript is append-only
// and never truncated locally; only the upstream window is bounded.
type session struct {
	id uuid.UUID

	mu       sync.Mutex
	messages []types.ChatMessage
	inFlight int
}

// appendUser adds the user's message before the provider call is dispatched,
// marks the pipeline as typing, and returns a windowed snapshot of the
// transcript for the outbound request.
func (s *session) appendUser(content string, windowTurns int) []types.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, types.ChatMessage{Role: types.RoleUser, Content: content})
	s.inFlight++

	window := s.messages
	if windowTurns > 0 && len(window) > windowTurns {
		window = window[len(window)-windowTurns:]
	}
	snapshot := make([]types.ChatMessage, len(window))
	copy(snapshot, window)
	return snapshot
}

// settle appends the assistant's reply exactly once and clears the typing flag
// for this dispatch. Called on every exit path of a send.
func (s *session) settle(reply types.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, reply)
	s.inFlight--
}

func (s *session) transcript() *types.ChatTranscript {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := make([]types.ChatMessage, len(s.messages))
	copy(messages, s.messages)
	return &types.ChatTranscript{
		SessionID: s.id,
		Messages:  messages,
		Typing:    s.inFlight > 0,
	}
}

// SessionStore keeps chat sessions in memory with a TTL; an idle conversation
// eventually expires, nothing is persisted.
type SessionStore struct {
	sessions *cache.Cache
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{sessions: cache.New(ttl, 2*ttl)}
}

func (st *SessionStore) Create() *session {
	sess := &session{id: uuid.New()}
	st.sessions.Set(sess.id.String(), sess, cache.DefaultExpiration)
	return sess
}

func (st *SessionStore) Get(id uuid.UUID) (*session, bool) {
	v, found := st.sessions.Get(id.String())
	if !found {
		return nil, false
	}
	sess := v.(*session)
	// Activity refreshes the TTL.
	st.sessions.Set(id.String(), sess, cache.DefaultExpiration)
	return sess, true
}
