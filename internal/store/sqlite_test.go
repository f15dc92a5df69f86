package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEmbeddingRoundTrip(t *testing.T) {
	s := openTestStore(t)

	rec := EmbeddingRecord{
		Source:    "data/burse.txt",
		Content:   "Bursele de merit...",
		Embedding: []float32{0.1, -0.2, 0.3},
	}
	if err := s.InsertEmbedding(&rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rec.ID == 0 {
		t.Fatal("expected generated id")
	}

	records, err := s.GetAllEmbeddings()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.Source != rec.Source || got.Content != rec.Content {
		t.Fatalf("unexpected record: %+v", got)
	}
	if len(got.Embedding) != 3 || got.Embedding[1] != -0.2 {
		t.Fatalf("unexpected embedding: %v", got.Embedding)
	}
}

func TestGetAllEmbeddingsEmpty(t *testing.T) {
	s := openTestStore(t)

	records, err := s.GetAllEmbeddings()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty corpus, got %d", len(records))
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)

	created, err := s.CreateSession(map[string]string{"user_agent": "go-test"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected session id")
	}

	got, err := s.GetSessionByID(created.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got == nil {
		t.Fatal("session not found")
	}
	if got.Metadata["user_agent"] != "go-test" {
		t.Fatalf("metadata lost: %+v", got.Metadata)
	}

	if err := s.TouchSession(created.ID); err != nil {
		t.Fatalf("touch session: %v", err)
	}
	touched, err := s.GetSessionByID(created.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if touched.LastActivity.Before(got.LastActivity) {
		t.Fatal("last_activity went backwards")
	}
}

func TestGetSessionByIDMissing(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetSessionByID("nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing session, got %+v", got)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	s := openTestStore(t)

	userMsg := ChatMessage{
		SessionID:      "s1",
		Role:           "user",
		Content:        "Care este programul burselor?",
		QueryEmbedding: []float32{0.5, 0.5},
	}
	if err := s.CreateMessage(&userMsg); err != nil {
		t.Fatalf("create user message: %v", err)
	}
	if userMsg.ID == "" {
		t.Fatal("expected generated message id")
	}

	source := "data/burse.txt"
	url := "https://economice.ulbsibiu.ro"
	assistantMsg := ChatMessage{
		SessionID:       "s1",
		Role:            "assistant",
		Content:         "Bursele se acordă semestrial.",
		RetrievedSource: &source,
		RetrievedURL:    &url,
	}
	if err := s.CreateMessage(&assistantMsg); err != nil {
		t.Fatalf("create assistant message: %v", err)
	}

	msgs, err := s.GetMessagesBySessionID("s1", 10)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[0].RetrievedSource != nil {
		t.Fatalf("unexpected user row: %+v", msgs[0])
	}
	if msgs[1].Role != "assistant" || msgs[1].RetrievedSource == nil || *msgs[1].RetrievedSource != source {
		t.Fatalf("unexpected assistant row: %+v", msgs[1])
	}
}

func TestCreateMessageRejectsUnknownRole(t *testing.T) {
	s := openTestStore(t)

	msg := ChatMessage{SessionID: "s1", Role: "system", Content: "nope"}
	if err := s.CreateMessage(&msg); err == nil {
		t.Fatal("expected CHECK constraint to reject role")
	}
}

func TestFeedbackAppendOnly(t *testing.T) {
	s := openTestStore(t)

	comment := "very useful"
	for i := 0; i < 2; i++ {
		fb := MessageFeedback{MessageID: "m1", SessionID: "s1", Rating: "helpful", Comment: &comment}
		if err := s.CreateFeedback(&fb); err != nil {
			t.Fatalf("create feedback: %v", err)
		}
		if fb.ID == 0 {
			t.Fatal("expected generated feedback id")
		}
	}

	n, err := s.CountFeedbackForMessage("m1")
	if err != nil {
		t.Fatalf("count feedback: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows (no dedup), got %d", n)
	}
}

func TestFeedbackRejectsUnknownRating(t *testing.T) {
	s := openTestStore(t)

	fb := MessageFeedback{MessageID: "m1", SessionID: "s1", Rating: "meh"}
	if err := s.CreateFeedback(&fb); err == nil {
		t.Fatal("expected CHECK constraint to reject rating")
	}
}

func TestCreateAnalyticsEvent(t *testing.T) {
	s := openTestStore(t)

	ev := AnalyticsEvent{
		EventType: "message_sent",
		SessionID: "s1",
		Metadata:  map[string]string{"response_time_ms": "1200"},
	}
	if err := s.CreateAnalyticsEvent(&ev); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if ev.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}
}
