package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// funcLLM lets a test inspect or script each completion call.
type funcLLM func(ctx context.Context, prompt Prompt) (string, error)

func (f funcLLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	return f(ctx, prompt)
}

func TestAgentGenerate(t *testing.T) {
	agent, err := NewAgent(MockLLM{}, "gpt-4o", []ModuleFile{{Name: "toolkit/x.go", Content: "package x"}}, nil)
	require.NoError(t, err)

	draft, err := agent.Generate(context.Background(), Request{Description: "hello app"}, nil, "")
	require.NoError(t, err)
	assert.NotEmpty(t, draft.Code)
	assert.NotEmpty(t, draft.Markdown)
}

func TestAgentGenerateError(t *testing.T) {
	agent, err := NewAgent(MockLLM{Err: errors.New("api down")}, "gpt-4o", nil, nil)
	require.NoError(t, err)

	_, err = agent.Generate(context.Background(), Request{Description: "hello app"}, nil, "")
	assert.ErrorContains(t, err, "api down")
}

func TestAgentOptimizePassRewritesDescription(t *testing.T) {
	var sawOptimized bool
	llm := funcLLM(func(_ context.Context, p Prompt) (string, error) {
		if strings.Contains(p.System, "prompt engineer") {
			return "OPTIMIZED DESCRIPTION", nil
		}
		if strings.Contains(p.User, "OPTIMIZED DESCRIPTION") {
			sawOptimized = true
		}
		return "# App\n\nSummary.\n\n```go\npackage main\n```\n", nil
	})

	agent, err := NewAgent(llm, "gpt-4o", nil, nil)
	require.NoError(t, err)

	_, err = agent.Generate(context.Background(), Request{Description: "raw", Optimize: true}, nil, "")
	require.NoError(t, err)
	assert.True(t, sawOptimized, "generation prompt should carry the optimized description")
}

func TestAgentOptimizeFailureIsBestEffort(t *testing.T) {
	llm := funcLLM(func(_ context.Context, p Prompt) (string, error) {
		if strings.Contains(p.System, "prompt engineer") {
			return "", errors.New("optimizer down")
		}
		if !strings.Contains(p.User, "raw description") {
			return "", errors.New("expected original description")
		}
		return "# App\n\nSummary.\n\n```go\npackage main\n```\n", nil
	})

	agent, err := NewAgent(llm, "gpt-4o", nil, nil)
	require.NoError(t, err)

	draft, err := agent.Generate(context.Background(), Request{Description: "raw description", Optimize: true}, nil, "")
	require.NoError(t, err)
	assert.NotEmpty(t, draft.Code)
}

func TestNewAgentRequiresLLM(t *testing.T) {
	_, err := NewAgent(nil, "gpt-4o", nil, nil)
	assert.Error(t, err)
}

func TestSessionProposeAndRevise(t *testing.T) {
	agent, err := NewAgent(MockLLM{}, "gpt-4o", nil, nil)
	require.NoError(t, err)

	sess := NewSession("gen-1", Request{Description: "hello app"}, agent)
	first, err := sess.Propose(context.Background())
	require.NoError(t, err)
	assert.Len(t, sess.History, 1)

	revised, err := sess.Revise(context.Background(), "add flags")
	require.NoError(t, err)
	assert.Len(t, sess.History, 2)
	assert.Equal(t, "add flags", sess.History[1].Comment)
	assert.Equal(t, revised, sess.Draft)
	_ = first
}

func TestSessionReviseKeepsDraftOnError(t *testing.T) {
	calls := 0
	llm := funcLLM(func(_ context.Context, _ Prompt) (string, error) {
		calls++
		if calls > 1 {
			return "", errors.New("api down")
		}
		return "# App\n\nSummary.\n\n```go\npackage main\n```\n", nil
	})

	agent, err := NewAgent(llm, "gpt-4o", nil, nil)
	require.NoError(t, err)

	sess := NewSession("gen-2", Request{Description: "hello app"}, agent)
	first, err := sess.Propose(context.Background())
	require.NoError(t, err)

	_, err = sess.Revise(context.Background(), "break it")
	require.Error(t, err)
	assert.Equal(t, first, sess.Draft)
	assert.Len(t, sess.History, 1)
}
