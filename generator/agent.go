package generator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Agent turns a Request (and optional previous draft plus feedback) into a
// Draft by driving the completion API.
type Agent struct {
	llm     LLMClient
	model   string
	modules []ModuleFile
	log     *zap.Logger
}

func NewAgent(llm LLMClient, model string, modules []ModuleFile, log *zap.Logger) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Agent{llm: llm, model: model, modules: modules, log: log}, nil
}

// Generate produces the first draft for req, or a revision of prevDraft when
// it is non-nil and comment carries the user's feedback.
func (a *Agent) Generate(ctx context.Context, req Request, prevDraft *Draft, comment string) (Draft, error) {
	description := req.Description
	if prevDraft == nil && req.Optimize {
		optimized, err := a.optimize(ctx, description)
		if err != nil {
			// The optimizer pass is best effort; generation proceeds with
			// the original description.
			a.log.Warn("prompt optimizer pass failed", zap.Error(err))
		} else {
			description = optimized
		}
	}

	var prompt Prompt
	if prevDraft == nil {
		prompt = BuildGeneratePrompt(description, a.modules)
	} else {
		prompt = BuildRevisionPrompt(*prevDraft, comment)
	}

	raw, err := a.complete(ctx, "generate", prompt)
	if err != nil {
		return Draft{}, err
	}
	return PostProcess(raw)
}

func (a *Agent) optimize(ctx context.Context, description string) (string, error) {
	raw, err := a.complete(ctx, "optimize", BuildOptimizerPrompt(description))
	if err != nil {
		return "", err
	}
	return raw, nil
}

func (a *Agent) complete(ctx context.Context, kind string, prompt Prompt) (string, error) {
	tokens, err := checkBudget(a.model, prompt)
	if err != nil {
		completionRequestsTotal.WithLabelValues(a.model, kind, "rejected").Inc()
		return "", err
	}
	promptTokens.WithLabelValues(a.model, kind).Observe(float64(tokens))

	start := time.Now()
	raw, err := a.llm.Complete(ctx, prompt)
	duration := time.Since(start)
	completionDuration.WithLabelValues(a.model, kind).Observe(duration.Seconds())
	if err != nil {
		completionRequestsTotal.WithLabelValues(a.model, kind, "error").Inc()
		a.log.Error("completion request failed",
			zap.String("kind", kind), zap.Duration("duration", duration), zap.Error(err))
		return "", err
	}
	completionRequestsTotal.WithLabelValues(a.model, kind, "success").Inc()
	a.log.Info("completion request done",
		zap.String("kind", kind),
		zap.Int("prompt_tokens_est", tokens),
		zap.Duration("duration", duration))
	return raw, nil
}
