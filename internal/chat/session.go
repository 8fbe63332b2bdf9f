package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/bmi-planner/internal/ai"
	"github.com/fdg312/bmi-planner/internal/intakes"
	"github.com/fdg312/bmi-planner/internal/metrics"
	"github.com/fdg312/bmi-planner/internal/profiles"
	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/google/uuid"
)

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

var (
	ErrEmptyQuery    = errors.New("empty query")
	ErrQueryInFlight = errors.New("query already in flight")
	ErrSessionClosed = errors.New("session closed")
)

// Turn is one message of the conversation.
type Turn struct {
	ID        uuid.UUID
	Role      string
	Text      string
	Rule      string
	CreatedAt time.Time
}

// Completion is delivered exactly once per accepted query.
type Completion struct {
	Turn Turn
	Err  error
}

// Pending is returned by Submit: the stored user turn and the answer channel.
type Pending struct {
	UserTurn Turn
	Done     <-chan Completion
}

// Query carries the question and the state the answer may read.
type Query struct {
	Text      string
	Profile   *profiles.HealthProfile
	Hydration intakes.HydrationState
}

// mailbox messages
type (
	submitMsg struct {
		query Query
		reply chan submitResult
	}
	submitResult struct {
		pending *Pending
		err     error
	}
	completedMsg struct {
		resp ai.ReplyResponse
		err  error
	}
	turnsMsg struct {
		reply chan []Turn
	}
	resetMsg struct {
		ctx   context.Context
		reply chan error
	}
	closeMsg struct{}
)

// Session owns one user's conversation. All state lives in the run loop;
// callers talk to it through the mailbox only.
type Session struct {
	owner    string
	provider ai.Provider
	store    storage.ChatStorage
	now      func() time.Time

	mailbox chan interface{}
	done    chan struct{}
	wg      sync.WaitGroup

	// owned by run()
	turns   []Turn
	pending chan Completion
}

// NewSession starts the actor. store may be nil; seed is the already
// persisted transcript in chronological order.
func NewSession(owner string, provider ai.Provider, store storage.ChatStorage, seed []Turn) *Session {
	s := &Session{
		owner:    owner,
		provider: provider,
		store:    store,
		now:      time.Now,
		mailbox:  make(chan interface{}),
		done:     make(chan struct{}),
		turns:    append([]Turn(nil), seed...),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

func (s *Session) run() {
	defer s.wg.Done()

	for msg := range s.mailbox {
		switch m := msg.(type) {
		case submitMsg:
			m.reply <- s.handleSubmit(m.query)
		case completedMsg:
			s.handleCompleted(m)
		case turnsMsg:
			m.reply <- append([]Turn(nil), s.turns...)
		case resetMsg:
			m.reply <- s.handleReset(m.ctx)
		case closeMsg:
			if s.pending != nil {
				s.pending <- Completion{Err: ErrSessionClosed}
				s.pending = nil
			}
			close(s.done)
			return
		default:
			log.Printf("WARN chat: unknown session message %T", msg)
		}
	}
}

func (s *Session) handleSubmit(q Query) submitResult {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return submitResult{err: ErrEmptyQuery}
	}
	if s.pending != nil {
		metrics.IncChatRejected()
		return submitResult{err: ErrQueryInFlight}
	}

	userTurn := s.appendTurn(RoleUser, text, "")
	s.pending = make(chan Completion, 1)

	req := ai.ReplyRequest{
		UserID:    s.owner,
		Query:     text,
		Profile:   q.Profile,
		Hydration: q.Hydration,
	}
	go s.answer(req)

	return submitResult{pending: &Pending{UserTurn: userTurn, Done: s.pending}}
}

// answer runs outside the loop and reports back with a single message.
// It is not tied to the caller's context: a client that stops waiting
// does not cancel the answer.
func (s *Session) answer(req ai.ReplyRequest) {
	resp, err := s.provider.Reply(context.Background(), req)
	select {
	case s.mailbox <- completedMsg{resp: resp, err: err}:
	case <-s.done:
	}
}

func (s *Session) handleCompleted(m completedMsg) {
	ch := s.pending
	s.pending = nil
	if ch == nil {
		return
	}
	if m.err != nil {
		log.Printf("WARN chat: provider failed owner=%s: %v", s.owner, m.err)
		ch <- Completion{Err: m.err}
		return
	}
	ch <- Completion{Turn: s.appendTurn(RoleBot, m.resp.AssistantText, m.resp.Rule)}
}

func (s *Session) handleReset(ctx context.Context) error {
	if s.pending != nil {
		return ErrQueryInFlight
	}
	if s.store != nil {
		if err := s.store.ClearTranscript(ctx, s.owner); err != nil {
			return err
		}
	}
	s.turns = nil
	return nil
}

func (s *Session) appendTurn(role, text, rule string) Turn {
	turn := Turn{ID: uuid.New(), Role: role, Text: text, Rule: rule, CreatedAt: s.now().UTC()}
	if s.store != nil {
		err := s.store.AppendTurn(context.Background(), storage.TranscriptTurn{
			ID:          turn.ID,
			OwnerUserID: s.owner,
			Role:        role,
			Text:        text,
			Rule:        rule,
			CreatedAt:   turn.CreatedAt,
		})
		if err != nil {
			log.Printf("WARN chat: persist %s turn failed owner=%s: %v", role, s.owner, err)
		}
	}
	s.turns = append(s.turns, turn)
	return turn
}

func (s *Session) send(ctx context.Context, msg interface{}) error {
	select {
	case s.mailbox <- msg:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit appends the user turn and starts answering. It returns at once;
// the bot turn arrives on Pending.Done.
func (s *Session) Submit(ctx context.Context, q Query) (*Pending, error) {
	reply := make(chan submitResult, 1)
	if err := s.send(ctx, submitMsg{query: q, reply: reply}); err != nil {
		return nil, err
	}
	res := <-reply
	return res.pending, res.err
}

// Turns returns a copy of the transcript in chronological order.
func (s *Session) Turns(ctx context.Context) ([]Turn, error) {
	reply := make(chan []Turn, 1)
	if err := s.send(ctx, turnsMsg{reply: reply}); err != nil {
		return nil, err
	}
	return <-reply, nil
}

// Reset clears the transcript. Fails with ErrQueryInFlight while answering.
func (s *Session) Reset(ctx context.Context) error {
	reply := make(chan error, 1)
	if err := s.send(ctx, resetMsg{ctx: ctx, reply: reply}); err != nil {
		return err
	}
	return <-reply
}

// Close stops the actor. A pending Submit receives ErrSessionClosed.
func (s *Session) Close() {
	select {
	case s.mailbox <- closeMsg{}:
	case <-s.done:
	}
	s.wg.Wait()
}
