package chat

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fdg312/bmi-planner/internal/intakes"
	"github.com/fdg312/bmi-planner/internal/profiles"
	"github.com/fdg312/bmi-planner/internal/userctx"
)

type profileSource interface {
	Current(ctx context.Context) (*profiles.HealthProfile, error)
}

type hydrationSource interface {
	Status(ctx context.Context) (intakes.HydrationState, error)
}

type Service struct {
	registry  *Registry
	profiles  profileSource
	hydration hydrationSource
}

func NewService(registry *Registry, profiles profileSource, hydration hydrationSource) *Service {
	return &Service{
		registry:  registry,
		profiles:  profiles,
		hydration: hydration,
	}
}

// SendMessage submits the query to the caller's session and waits for the
// answer or for ctx to end. The profile is the last calculated snapshot,
// hydration is read at submit time.
func (s *Service) SendMessage(ctx context.Context, content string) (*SendMessageResponse, error) {
	owner := userctx.OwnerID(ctx)
	sess, err := s.registry.Get(ctx, owner)
	if err != nil {
		return nil, err
	}

	q := Query{Text: content}
	if s.profiles != nil {
		p, err := s.profiles.Current(ctx)
		switch {
		case err == nil:
			q.Profile = p
		case errors.Is(err, profiles.ErrProfileRequired):
		default:
			return nil, fmt.Errorf("load profile: %w", err)
		}
	}
	if s.hydration != nil {
		st, err := s.hydration.Status(ctx)
		if err != nil {
			return nil, fmt.Errorf("load hydration: %w", err)
		}
		q.Hydration = st
	}

	pending, err := sess.Submit(ctx, q)
	if err != nil {
		return nil, err
	}

	select {
	case c := <-pending.Done:
		if c.Err != nil {
			return nil, c.Err
		}
		log.Printf("INFO chat: answered owner=%s rule=%s", owner, c.Turn.Rule)
		return &SendMessageResponse{
			UserMessage:      turnToDTO(pending.UserTurn),
			AssistantMessage: turnToDTO(c.Turn),
		}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Turns returns the caller's transcript, oldest first.
func (s *Service) Turns(ctx context.Context) ([]Turn, error) {
	sess, err := s.registry.Get(ctx, userctx.OwnerID(ctx))
	if err != nil {
		return nil, err
	}
	return sess.Turns(ctx)
}

func (s *Service) ListMessages(ctx context.Context) (*ListMessagesResponse, error) {
	turns, err := s.Turns(ctx)
	if err != nil {
		return nil, err
	}
	resp := &ListMessagesResponse{Messages: make([]ChatMessageDTO, 0, len(turns))}
	for _, t := range turns {
		resp.Messages = append(resp.Messages, turnToDTO(t))
	}
	return resp, nil
}

func (s *Service) Reset(ctx context.Context) error {
	owner := userctx.OwnerID(ctx)
	sess, err := s.registry.Get(ctx, owner)
	if err != nil {
		return err
	}
	if err := sess.Reset(ctx); err != nil {
		return err
	}
	log.Printf("INFO chat: conversation reset owner=%s", owner)
	return nil
}

func (s *Service) Suggestions() SuggestionsResponse {
	return SuggestionsResponse{Welcome: WelcomeText, QuickLinks: QuickLinks}
}
