package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"serenity-backend/internal/llm"
	"serenity-backend/internal/models"
	"serenity-backend/pkg/logger"
)

// FallbackReply substitutes an upstream reply that is missing or too
// short to mean anything.
const FallbackReply = "I'm having trouble understanding. Could you rephrase that or tell me more about how you feel?"

// Replies shorter than this are treated as no reply at all.
const minReplyLength = 5

type conversationRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Conversation, error)
	AppendExchange(ctx context.Context, conversationID uuid.UUID, userText, botText string) error
	ListMessages(ctx context.Context, userID uuid.UUID) ([]models.Message, error)
}

// RelayService forwards user messages to the upstream chat provider and
// records each successful exchange in the user's conversation.
type RelayService struct {
	convRepo     conversationRepository
	client       llm.Client
	log          *logger.Logger
	systemPrompt string
	maxTokens    int
	timeout      time.Duration
}

func NewRelayService(
	convRepo conversationRepository,
	client llm.Client,
	log *logger.Logger,
	systemPrompt string,
	maxTokens int,
	timeout time.Duration,
) *RelayService {
	return &RelayService{
		convRepo:     convRepo,
		client:       client,
		log:          log,
		systemPrompt: systemPrompt,
		maxTokens:    maxTokens,
		timeout:      timeout,
	}
}

// SendMessage normalizes rawText, relays it upstream, and on success
// appends the original message and the resolved reply to the user's
// conversation. An upstream or storage failure persists nothing; a
// half-written exchange is never recorded.
func (s *RelayService) SendMessage(ctx context.Context, userID uuid.UUID, rawText string) (string, error) {
	normalized := NormalizeMessage(rawText)
	if normalized == "" {
		return "", &EmptyMessageError{}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Complete(callCtx, &llm.CompletionRequest{
		System:    s.systemPrompt,
		Message:   normalized,
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		if errors.Is(err, llm.ErrRateLimited) {
			return "", &RateLimitError{Message: "The assistant is receiving too many requests. Please try again shortly."}
		}
		s.log.Error(ctx, "upstream completion failed",
			zap.String("provider", s.client.Name()),
			zap.Error(err),
		)
		return "", &UpstreamError{Message: "Failed to get a response from the assistant.", Err: err}
	}

	reply := strings.TrimSpace(resp.Content)
	if utf8.RuneCountInString(reply) < minReplyLength {
		reply = FallbackReply
	}

	conv, err := s.convRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return "", &StorageError{Err: err}
	}
	if err := s.convRepo.AppendExchange(ctx, conv.ID, rawText, reply); err != nil {
		return "", &StorageError{Err: err}
	}

	return reply, nil
}

// History returns the user's messages in append order. A user who has
// never chatted gets an empty history, not an error.
func (s *RelayService) History(ctx context.Context, userID uuid.UUID) ([]models.HistoryEntry, error) {
	messages, err := s.convRepo.ListMessages(ctx, userID)
	if err != nil {
		return nil, &StorageError{Err: err}
	}

	history := make([]models.HistoryEntry, 0, len(messages))
	for _, m := range messages {
		history = append(history, models.HistoryEntry{Sender: m.Sender, Text: m.Text})
	}
	return history, nil
}
