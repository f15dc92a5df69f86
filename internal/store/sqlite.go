package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS embeddings (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        source TEXT NOT NULL,
        content TEXT NOT NULL,
        embedding_json TEXT -- JSON array of floats
    );

    CREATE TABLE IF NOT EXISTS chat_sessions (
        id TEXT PRIMARY KEY, -- UUID
        started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        last_activity DATETIME DEFAULT CURRENT_TIMESTAMP,
        metadata_json TEXT
    );

    CREATE TABLE IF NOT EXISTS chat_messages (
        id TEXT PRIMARY KEY, -- UUID
        session_id TEXT NOT NULL,
        role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
        content TEXT NOT NULL,
        query_embedding_json TEXT,
        retrieved_source TEXT,
        retrieved_url TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (session_id) REFERENCES chat_sessions (id)
    );

    CREATE TABLE IF NOT EXISTS message_feedback (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        message_id TEXT NOT NULL,
        session_id TEXT NOT NULL,
        rating TEXT NOT NULL CHECK (rating IN ('helpful', 'not_helpful')),
        comment TEXT,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS analytics_events (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        event_type TEXT NOT NULL,
        session_id TEXT,
        metadata_json TEXT,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// Embedding methods. The corpus is written by the offline ingestion tooling
// and never mutated by the request path.

func (s *SQLiteStore) InsertEmbedding(rec *EmbeddingRecord) error {
	embeddingJSON, err := json.Marshal(rec.Embedding)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	res, err := s.db.Exec("INSERT INTO embeddings (source, content, embedding_json) VALUES (?, ?, ?)",
		rec.Source, rec.Content, string(embeddingJSON))
	if err != nil {
		return fmt.Errorf("failed to insert embedding: %w", err)
	}
	rec.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) GetAllEmbeddings() ([]EmbeddingRecord, error) {
	rows, err := s.db.Query("SELECT id, source, content, embedding_json FROM embeddings")
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer rows.Close()

	var records []EmbeddingRecord
	for rows.Next() {
		var rec EmbeddingRecord
		var embeddingJSON sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Content, &embeddingJSON); err != nil {
			return nil, fmt.Errorf("failed to scan embedding row: %w", err)
		}
		if embeddingJSON.Valid && embeddingJSON.String != "" {
			if err := json.Unmarshal([]byte(embeddingJSON.String), &rec.Embedding); err != nil {
				log.Printf("Warning: failed to unmarshal embedding for record %d (source: %s): %v. Embedding will be empty.", rec.ID, rec.Source, err)
				rec.Embedding = nil
			}
		} else {
			log.Printf("Warning: empty embedding_json for record ID %d. Embedding will be empty.", rec.ID)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Session methods

func (s *SQLiteStore) CreateSession(metadata map[string]string) (*ChatSession, error) {
	sessionID := uuid.NewString()

	var metadataJSON []byte
	if metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal session metadata: %w", err)
		}
	}

	now := time.Now().UTC()
	_, err := s.db.Exec("INSERT INTO chat_sessions (id, started_at, last_activity, metadata_json) VALUES (?, ?, ?, ?)",
		sessionID, now, now, nullableString(metadataJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	return &ChatSession{ID: sessionID, StartedAt: now, LastActivity: now, Metadata: metadata}, nil
}

func (s *SQLiteStore) GetSessionByID(sessionID string) (*ChatSession, error) {
	var sess ChatSession
	var metadataJSON sql.NullString
	err := s.db.QueryRow("SELECT id, started_at, last_activity, metadata_json FROM chat_sessions WHERE id = ?", sessionID).
		Scan(&sess.ID, &sess.StartedAt, &sess.LastActivity, &metadataJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &sess.Metadata); err != nil {
			log.Printf("Warning: failed to unmarshal metadata for session %s: %v", sess.ID, err)
		}
	}
	return &sess, nil
}

// TouchSession refreshes a session's last_activity timestamp.
func (s *SQLiteStore) TouchSession(sessionID string) error {
	_, err := s.db.Exec("UPDATE chat_sessions SET last_activity = ? WHERE id = ?", time.Now().UTC(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to update session activity: %w", err)
	}
	return nil
}

// Message methods

func (s *SQLiteStore) CreateMessage(msg *ChatMessage) error {
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now().UTC()

	var embeddingJSON []byte
	if msg.QueryEmbedding != nil {
		var err error
		embeddingJSON, err = json.Marshal(msg.QueryEmbedding)
		if err != nil {
			return fmt.Errorf("failed to marshal query embedding: %w", err)
		}
	}

	stmt, err := s.db.Prepare("INSERT INTO chat_messages (id, session_id, role, content, query_embedding_json, retrieved_source, retrieved_url, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(msg.ID, msg.SessionID, msg.Role, msg.Content, nullableString(embeddingJSON), msg.RetrievedSource, msg.RetrievedURL, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute message insert: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetMessagesBySessionID(sessionID string, limit int) ([]ChatMessage, error) {
	rows, err := s.db.Query("SELECT id, session_id, role, content, retrieved_source, retrieved_url, created_at FROM chat_messages WHERE session_id = ? ORDER BY created_at ASC, rowid ASC LIMIT ?", sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var msg ChatMessage
		var source, url sql.NullString
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &source, &url, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		if source.Valid {
			msg.RetrievedSource = &source.String
		}
		if url.Valid {
			msg.RetrievedURL = &url.String
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *SQLiteStore) CountMessages() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM chat_messages").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return n, nil
}

// Feedback methods

// CreateFeedback appends a feedback row. Duplicate submissions for the same
// message are allowed; the table carries no uniqueness constraint.
func (s *SQLiteStore) CreateFeedback(fb *MessageFeedback) error {
	fb.CreatedAt = time.Now().UTC()

	stmt, err := s.db.Prepare("INSERT INTO message_feedback (message_id, session_id, rating, comment, created_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare feedback insert: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(fb.MessageID, fb.SessionID, fb.Rating, fb.Comment, fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute feedback insert: %w", err)
	}
	fb.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) CountFeedbackForMessage(messageID string) (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM message_feedback WHERE message_id = ?", messageID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return n, nil
}

// Analytics methods

func (s *SQLiteStore) CreateAnalyticsEvent(ev *AnalyticsEvent) error {
	ev.Timestamp = time.Now().UTC()

	var metadataJSON []byte
	if ev.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(ev.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal event metadata: %w", err)
		}
	}

	_, err := s.db.Exec("INSERT INTO analytics_events (event_type, session_id, metadata_json, timestamp) VALUES (?, ?, ?, ?)",
		ev.EventType, ev.SessionID, nullableString(metadataJSON), ev.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return nil
}

func nullableString(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
