package core

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/davidspringean12/ai-mazed/internal/store"
)

// ConversationStore is the write side of the conversation log. Every call is
// best-effort from the orchestrator's point of view: an answer that has
// already been computed is never lost to a persistence failure.
type ConversationStore interface {
	CreateSession(metadata map[string]string) (*store.ChatSession, error)
	GetSessionByID(sessionID string) (*store.ChatSession, error)
	TouchSession(sessionID string) error
	CreateMessage(msg *store.ChatMessage) error
	CreateFeedback(fb *store.MessageFeedback) error
	CreateAnalyticsEvent(ev *store.AnalyticsEvent) error
}

// ChatResult is the answer to one user turn.
type ChatResult struct {
	Response  string  `json:"response"`
	Source    string  `json:"source"`
	URL       string  `json:"url"`
	MessageID *string `json:"message_id,omitempty"`
}

// ChatService orchestrates one turn: embed, retrieve, resolve, prompt,
// complete, persist. It holds no mutable state of its own between calls.
type ChatService struct {
	dbStore    ConversationStore
	ragService *RAGService
	llmService LLM
	sources    SourceMap
}

func NewChatService(db ConversationStore, rag *RAGService, llm LLM, sources SourceMap) *ChatService {
	return &ChatService{
		dbStore:    db,
		ragService: rag,
		llmService: llm,
		sources:    sources,
	}
}

// Answer handles a single user message. Failures before the completion abort
// the whole turn; persistence failures after it are logged and swallowed.
func (s *ChatService) Answer(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	started := time.Now()

	queryEmbedding, err := s.llmService.Embed(ctx, ExpandQuery(message))
	if err != nil {
		s.recordError(sessionID, err)
		return nil, err
	}

	records := s.ragService.Records()
	bestMatch, err := FindBestMatch(queryEmbedding, records)
	if err != nil {
		s.recordError(sessionID, err)
		return nil, err
	}

	sourceURL := s.sources.ResolveURL(bestMatch.Source)
	userPrompt := BuildUserPrompt(bestMatch.Content, bestMatch.Source, sourceURL, message)

	response, err := s.llmService.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		s.recordError(sessionID, err)
		return nil, err
	}

	// The answer is computed; everything below is best-effort bookkeeping.
	userMsg := store.ChatMessage{
		SessionID:      sessionID,
		Role:           "user",
		Content:        message,
		QueryEmbedding: queryEmbedding,
	}
	if err := s.dbStore.CreateMessage(&userMsg); err != nil {
		log.Printf("Error saving user message for session %s: %v", sessionID, err)
	}

	var messageID *string
	assistantMsg := store.ChatMessage{
		SessionID:       sessionID,
		Role:            "assistant",
		Content:         response,
		RetrievedSource: &bestMatch.Source,
		RetrievedURL:    &sourceURL,
	}
	if err := s.dbStore.CreateMessage(&assistantMsg); err != nil {
		log.Printf("Error saving assistant message for session %s: %v", sessionID, err)
	} else {
		messageID = &assistantMsg.ID
	}

	if err := s.dbStore.TouchSession(sessionID); err != nil {
		log.Printf("Error refreshing session %s: %v", sessionID, err)
	}

	s.recordEvent(sessionID, "message_sent", map[string]string{
		"response_time_ms": strconv.FormatInt(time.Since(started).Milliseconds(), 10),
	})

	return &ChatResult{
		Response:  response,
		Source:    bestMatch.Source,
		URL:       sourceURL,
		MessageID: messageID,
	}, nil
}

// StartSession creates a new session for a client and logs the event.
func (s *ChatService) StartSession(metadata map[string]string) (*store.ChatSession, error) {
	session, err := s.dbStore.CreateSession(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.recordEvent(session.ID, "session_start", nil)
	return session, nil
}

func (s *ChatService) GetSession(sessionID string) (*store.ChatSession, error) {
	return s.dbStore.GetSessionByID(sessionID)
}

// SubmitFeedback appends a feedback row for an assistant message. Repeated
// submissions append repeated rows; there is no deduplication.
func (s *ChatService) SubmitFeedback(messageID, sessionID, rating string, comment *string) error {
	fb := store.MessageFeedback{
		MessageID: messageID,
		SessionID: sessionID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.dbStore.CreateFeedback(&fb); err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	s.recordEvent(sessionID, "feedback_given", map[string]string{
		"message_id": messageID,
		"rating":     rating,
	})
	return nil
}

// EmbeddingsLoaded reports the size of the current corpus snapshot.
func (s *ChatService) EmbeddingsLoaded() int {
	return s.ragService.Count()
}

// ReloadEmbeddings refreshes the corpus snapshot from the store.
func (s *ChatService) ReloadEmbeddings() (int, error) {
	if err := s.ragService.Reload(); err != nil {
		return 0, err
	}
	return s.ragService.Count(), nil
}

func (s *ChatService) recordEvent(sessionID, eventType string, metadata map[string]string) {
	ev := store.AnalyticsEvent{
		EventType: eventType,
		SessionID: sessionID,
		Metadata:  metadata,
	}
	if err := s.dbStore.CreateAnalyticsEvent(&ev); err != nil {
		log.Printf("Error recording %s event for session %s: %v", eventType, sessionID, err)
	}
}

func (s *ChatService) recordError(sessionID string, cause error) {
	s.recordEvent(sessionID, "error", map[string]string{"error": cause.Error()})
}
