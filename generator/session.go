package generator

import (
	"context"
	"time"
)

// Session holds the drafts of one app description across generate and revise
// turns.
type Session struct {
	ID      string
	Request Request
	Draft   Draft
	History []Turn
	agent   *Agent
}

// NewSession creates a session; no draft exists until Propose runs.
func NewSession(id string, req Request, agent *Agent) *Session {
	return &Session{ID: id, Request: req, agent: agent}
}

// Propose generates the first draft.
func (s *Session) Propose(ctx context.Context) (Draft, error) {
	draft, err := s.agent.Generate(ctx, s.Request, nil, "")
	if err != nil {
		return Draft{}, err
	}
	s.Draft = draft
	s.appendTurn("", draft)
	return draft, nil
}

// Revise regenerates the draft from the user's feedback comment.
func (s *Session) Revise(ctx context.Context, comment string) (Draft, error) {
	draft, err := s.agent.Generate(ctx, s.Request, &s.Draft, comment)
	if err != nil {
		return Draft{}, err
	}
	s.Draft = draft
	s.appendTurn(comment, draft)
	return draft, nil
}

func (s *Session) appendTurn(comment string, draft Draft) {
	s.History = append(s.History, Turn{
		Comment:   comment,
		Draft:     draft,
		CreatedAt: time.Now(),
	})
}
