package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// ErrRunTimeout is returned when a run stays in a pending state past the
// configured maximum wait. Callers can tell a stuck run apart from other
// upstream failures.
var ErrRunTimeout = errors.New("assistant run did not reach a terminal status in time")

// Assistant is one conversational turn against the hosted assistant:
// append the message to a thread, execute a run, return the reply text.
type Assistant interface {
	CreateThread(ctx context.Context) (string, error)
	Ask(ctx context.Context, threadId, content string) (string, error)
}

// threadAPI is the slice of the OpenAI beta client the flow needs,
// extracted so the poll loop is testable without the hosted service.
type threadAPI interface {
	CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
	CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error)
	CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error)
	RetrieveRun(ctx context.Context, threadID, runID string) (openai.Run, error)
	ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error)
}

// OpenAIAssistant drives the OpenAI Assistants thread/run flow. Runs are
// polled with a growing interval (x1.5, capped at 5s) up to maxWait.
type OpenAIAssistant struct {
	api          threadAPI
	assistantId  string
	pollInterval time.Duration
	maxWait      time.Duration
}

func NewOpenAIAssistant(apiKey, assistantId string, pollInterval, maxWait time.Duration) *OpenAIAssistant {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if maxWait <= 0 {
		maxWait = 90 * time.Second
	}
	return &OpenAIAssistant{
		api:          openai.NewClient(apiKey),
		assistantId:  assistantId,
		pollInterval: pollInterval,
		maxWait:      maxWait,
	}
}

func (a *OpenAIAssistant) CreateThread(ctx context.Context) (string, error) {
	thread, err := a.api.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", err
	}
	return thread.ID, nil
}

func (a *OpenAIAssistant) Ask(ctx context.Context, threadId, content string) (string, error) {
	if _, err := a.api.CreateMessage(ctx, threadId, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: content,
	}); err != nil {
		return "", err
	}

	run, err := a.api.CreateRun(ctx, threadId, openai.RunRequest{
		AssistantID: a.assistantId,
	})
	if err != nil {
		return "", err
	}

	status, err := a.waitForRun(ctx, threadId, run.ID)
	if err != nil {
		return "", err
	}
	if status != openai.RunStatusCompleted {
		return "", fmt.Errorf("assistant run ended with status %q", status)
	}

	// The reply is the newest message on the thread.
	limit := 1
	order := "desc"
	list, err := a.api.ListMessage(ctx, threadId, &limit, &order, nil, nil, nil)
	if err != nil {
		return "", err
	}
	if len(list.Messages) == 0 || len(list.Messages[0].Content) == 0 || list.Messages[0].Content[0].Text == nil {
		return "", errors.New("assistant run completed without a reply message")
	}

	return list.Messages[0].Content[0].Text.Value, nil
}

func (a *OpenAIAssistant) waitForRun(ctx context.Context, threadId, runId string) (openai.RunStatus, error) {
	deadline := time.Now().Add(a.maxWait)
	interval := a.pollInterval

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}

		run, err := a.api.RetrieveRun(ctx, threadId, runId)
		if err != nil {
			return "", err
		}
		if !isPending(run.Status) {
			return run.Status, nil
		}

		if time.Now().After(deadline) {
			return "", ErrRunTimeout
		}

		interval = interval * 3 / 2
		if interval > 5*time.Second {
			interval = 5 * time.Second
		}
	}
}

func isPending(status openai.RunStatus) bool {
	return status == openai.RunStatusQueued || status == openai.RunStatusInProgress
}
