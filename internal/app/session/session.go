/*
Package session turns distributed wire frames into the client's authoritative state.

This file defines the Session struct, which exclusively owns the roster and the message
feed. It registers the local user on creation, applies every inbound frame as one atomic
reaction step, and emits outbound chat messages on behalf of the view layer.
*/
package session

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"chatsync/internal/app/eventbus"
	"chatsync/internal/app/protocol"
	"chatsync/internal/app/user"
	"chatsync/internal/pkg/errs"
	"chatsync/internal/pkg/logx"
)

// Sender is the outbound half of the connection. *conn.Conn satisfies it.
type Sender interface {
	Send(text string) error
}

// Subscriber is the distributor the session listens on. *eventbus.Bus[string] satisfies it.
type Subscriber interface {
	Subscribe(fn eventbus.Handler[string]) *eventbus.Subscription[string]
}

// State is the registration state of a Session.
type State int

const (
	// StateUnregistered is the state before the register frame has been issued.
	StateUnregistered State = iota

	// StateRegistered is terminal for the life of the session.
	StateRegistered
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateUnregistered:
		return "unregistered"
	case StateRegistered:
		return "registered"
	default:
		return "unknown"
	}
}

// FeedEntry is a feed message with its sender's avatar resolved against the
// current roster. Known is false when the sender is not in the roster, in which
// case the entry is rendered without decoration.
type FeedEntry struct {
	protocol.ChatMessage
	Avatar string `json:"avatar,omitempty"`
	Known  bool   `json:"known"`
}

// Session is the state reducer of one chat session.
type Session struct {
	username string
	sender   Sender
	sub      *eventbus.Subscription[string]
	onChange func()

	// mu protects state, roster and feed.
	mu     sync.RWMutex
	state  State
	roster []user.Profile
	feed   []protocol.ChatMessage

	logger zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithOnChange registers the re-render signal. fn runs after every accepted
// state change, outside the session lock, on the goroutine that delivered the frame.
func WithOnChange(fn func()) Option {
	return func(s *Session) { s.onChange = fn }
}

// New creates the session, subscribes it to bus and sends the register frame for
// username. A failed register send is logged and the session proceeds anyway,
// since the server never acknowledges registration.
func New(username string, sender Sender, bus Subscriber, opts ...Option) *Session {
	s := &Session{
		username: username,
		sender:   sender,
		roster:   []user.Profile{},
		feed:     []protocol.ChatMessage{},
		logger:   logx.Component("Session").With().Str("username", username).Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.sub = bus.Subscribe(s.HandleFrame)
	s.logger.Debug().Uint64("subscription_id", s.sub.ID()).Msg("Subscribed to inbound frames.")
	s.register()

	return s
}

func (s *Session) register() {
	frame, err := protocol.EncodeString(protocol.Register(s.username))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build register frame.")
	} else if err := s.sender.Send(frame); err != nil {
		s.logger.Warn().Err(err).Msg("Register frame not sent. Proceeding without acknowledgement.")
	} else {
		s.logger.Info().Msg("Register frame sent.")
	}

	s.mu.Lock()
	s.state = StateRegistered
	s.mu.Unlock()
}

// HandleFrame applies one raw inbound frame. Frames that cannot be interpreted
// are dropped without a state change. It always returns nil so that a bad frame
// is never reported as a subscriber failure.
func (s *Session) HandleFrame(raw string) error {
	env, err := protocol.DecodeString(raw)
	if err != nil {
		if errs.IsDecode(err) {
			s.logger.Debug().Err(err).Msg("Dropping undecodable frame.")
		} else {
			s.logger.Warn().Err(err).Msg("Dropping frame after unexpected decode failure.")
		}
		return nil
	}

	changed := false

	switch env.Kind {
	case protocol.KindUsers:
		s.replaceRoster(env.List)
		changed = true

	case protocol.KindMessage:
		changed = s.appendMessage(env)

	case protocol.KindRegister:
		// Registration is outbound-only for this client.
	}

	if changed && s.onChange != nil {
		s.onChange()
	}
	return nil
}

func (s *Session) replaceRoster(names []string) {
	roster := make([]user.Profile, 0, len(names))
	for _, name := range names {
		roster = append(roster, user.NewProfile(name))
	}

	s.mu.Lock()
	s.roster = roster
	s.mu.Unlock()

	s.logger.Debug().Int("users", len(roster)).Msg("Roster replaced.")
}

func (s *Session) appendMessage(env protocol.Envelope) bool {
	data, ok := env.Text()
	if !ok {
		s.logger.Debug().Msg("Dropping message frame without data.")
		return false
	}

	msg, err := protocol.DecodeChatMessage(data)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Dropping malformed message payload.")
		return false
	}

	s.mu.Lock()
	s.feed = append(s.feed, msg)
	s.mu.Unlock()

	return true
}

// Submit sends input as a chat message. Surrounding whitespace is trimmed and
// blank input is ignored without touching the network. The message is not added
// to the feed here; it appears once the server broadcasts it back.
func (s *Session) Submit(input string) error {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil
	}

	frame, err := protocol.EncodeString(protocol.Message(text))
	if err != nil {
		return err
	}

	if err := s.sender.Send(frame); err != nil {
		s.logger.Warn().Err(err).Msg("Chat message not sent.")
		if !errs.IsSend(err) {
			err = errs.NewSendError(errs.ErrSendFailed, err)
		}
		return err
	}

	return nil
}

// Close stops the session from receiving further frames.
func (s *Session) Close() {
	if s.sub != nil && s.sub.Active() {
		s.sub.Unsubscribe()
		s.logger.Debug().Uint64("subscription_id", s.sub.ID()).Msg("Session closed.")
	}
}

// Username returns the local username the session registered with.
func (s *Session) Username() string { return s.username }

// State returns the registration state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Roster returns a copy of the current roster.
func (s *Session) Roster() []user.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]user.Profile, len(s.roster))
	copy(out, s.roster)
	return out
}

// Feed returns a copy of the feed in arrival order.
func (s *Session) Feed() []protocol.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]protocol.ChatMessage, len(s.feed))
	copy(out, s.feed)
	return out
}

// Lookup finds name in the current roster.
func (s *Session) Lookup(name string) (user.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(name)
}

func (s *Session) lookupLocked(name string) (user.Profile, bool) {
	for _, p := range s.roster {
		if p.Name == name {
			return p, true
		}
	}
	return user.Profile{}, false
}

// FeedView returns the feed with each sender resolved against the roster at
// the time of the call.
func (s *Session) FeedView() []FeedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]FeedEntry, 0, len(s.feed))
	for _, msg := range s.feed {
		entry := FeedEntry{ChatMessage: msg}
		if p, ok := s.lookupLocked(msg.Sender); ok {
			entry.Avatar = p.Avatar
			entry.Known = true
		}
		out = append(out, entry)
	}
	return out
}
