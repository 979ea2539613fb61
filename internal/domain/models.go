// Package domain defines the persistence models for credentials, chat
// messages, and analytics records. These types are mapped with GORM and form
// the core data layer of the chat client.
package domain

import "time"

// CredentialID is the fixed primary key of the singleton credential row.
// Pinning the key at the schema level guarantees at most one row can ever
// exist: concurrent saves collapse into an upsert on the same key
// (last writer wins) instead of racing an existence check.
const CredentialID = 1

// Credential is the single persisted tuple of (API key, PIN hash) that marks
// the device as set up. The PIN itself is never stored, only its SHA-256
// digest (hex-encoded).
//
// Fields:
//   - ID: always CredentialID; enforces the singleton invariant.
//   - APIKey: OpenRouter API key in plaintext.
//   - PINHash: hex-encoded SHA-256 digest of the 4-digit PIN.
//   - CreatedAt: set once when the credential is first saved.
//   - LastUsed: advanced on every save and on every read.
type Credential struct {
	ID        int       `json:"-"          gorm:"primaryKey"`
	APIKey    string    `json:"api_key"    gorm:"type:text;not null"`
	PINHash   string    `json:"-"          gorm:"column:pin_hash;type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"type:DATETIME;not null"`
	LastUsed  time.Time `json:"last_used"  gorm:"type:DATETIME;not null"`
}

// TableName returns the database table name for Credential.
func (Credential) TableName() string { return "auth" }

// Message represents one persisted chat exchange: the user's message and the
// model's response, stored together as a single append-only row. Rows are
// never mutated; history is only ever appended to or cleared wholesale.
type Message struct {
	ID          int64     `json:"id"           gorm:"primaryKey;autoIncrement"`
	Model       string    `json:"model"        gorm:"type:text;not null"`
	UserMessage string    `json:"user_message" gorm:"type:text;not null"`
	AIResponse  string    `json:"ai_response"  gorm:"column:ai_response;type:text;not null"`
	Timestamp   time.Time `json:"timestamp"    gorm:"type:DATETIME;not null;index:idx_messages_ts"`
	TokensUsed  int       `json:"tokens_used"  gorm:"not null"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// AnalyticsRecord captures per-message usage metrics: one row per sent
// message, independent of the messages table (no foreign key; the two are
// linked only by proximity in time). Append-only.
type AnalyticsRecord struct {
	ID            int64     `json:"id"             gorm:"primaryKey;autoIncrement"`
	Timestamp     time.Time `json:"timestamp"      gorm:"type:DATETIME;not null;index:idx_analytics_ts"`
	Model         string    `json:"model"          gorm:"type:text;not null"`
	MessageLength int       `json:"message_length" gorm:"not null"`
	ResponseTime  float64   `json:"response_time"  gorm:"not null"` // seconds
	TokensUsed    int       `json:"tokens_used"    gorm:"not null"`
}

// TableName returns the database table name for AnalyticsRecord.
func (AnalyticsRecord) TableName() string { return "analytics_messages" }
