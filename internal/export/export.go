// Package export writes chat history to timestamped JSON files. The output is
// a flat array of exchanges, one object per persisted message, suitable for
// re-import or offline reading.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avolkov/orchat/internal/domain"
)

// Record is one exported chat exchange.
type Record struct {
	Timestamp   time.Time `json:"timestamp"`
	Model       string    `json:"model"`
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	TokensUsed  int       `json:"tokens_used"`
}

// HistoryFilename returns the timestamped name an export lands under, e.g.
// chat_history_20240131_154205.json.
func HistoryFilename(now time.Time) string {
	return fmt.Sprintf("chat_history_%s.json", now.Format("20060102_150405"))
}

// FromMessages converts persisted messages into export records, preserving
// order.
func FromMessages(msgs []domain.Message) []Record {
	out := make([]Record, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Record{
			Timestamp:   m.Timestamp,
			Model:       m.Model,
			UserMessage: m.UserMessage,
			AIResponse:  m.AIResponse,
			TokensUsed:  m.TokensUsed,
		})
	}
	return out
}

// WriteHistory marshals msgs and writes them to a timestamped file under dir.
// It returns the full path of the written file.
func WriteHistory(dir string, msgs []domain.Message) (string, error) {
	data, err := json.MarshalIndent(FromMessages(msgs), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal history: %w", err)
	}
	path := filepath.Join(dir, HistoryFilename(time.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write history: %w", err)
	}
	return path, nil
}
