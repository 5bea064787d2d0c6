// Package backup implements a Reader over exported SMS backup files.
//
// Three container formats are supported, chosen by file extension: a JSON
// array of messages (bare or under a "messages" key), the XML format used by
// common SMS backup apps, and plain text with one message per line.
package backup

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/financeflow/financeflow/pkg/api"
	"github.com/financeflow/financeflow/pkg/sms"
)

// Reader extracts transaction candidates from an SMS backup file.
type Reader struct {
	path   string
	logger *slog.Logger
}

// New creates a reader for the backup file at path.
func New(path string, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{path: path, logger: logger}
}

// Read parses the backup file, runs extraction over every message, and sends
// the resulting candidates. It only returns once every sent candidate has
// been acknowledged, so the caller knows the import reached durable storage.
func (r *Reader) Read(ctx context.Context, out chan<- *api.Candidate, ackChan <-chan string) error {
	defer close(out)

	messages, err := r.loadMessages()
	if err != nil {
		return err
	}
	r.logger.Info("loaded backup file", "file", r.path, "messages", len(messages))

	candidates := make([]*api.Candidate, 0, len(messages))
	for _, msg := range messages {
		candidate := sms.Parse(msg.Content, msg.Sender)
		if candidate == nil {
			continue
		}
		candidate.MessageID = msg.ID
		candidates = append(candidates, candidate)
	}

	// Drain acknowledgments concurrently with sending. Writers acknowledge
	// inline while flushing, so a reader that sends everything before
	// reading its first ack wedges both sides once the channels fill.
	pending := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		pending[c.MessageID] = struct{}{}
	}
	ackDone := make(chan error, 1)
	go func() {
		ackDone <- r.awaitAcks(ctx, ackChan, pending)
	}()

	for _, candidate := range candidates {
		select {
		case out <- candidate:
		case <-ctx.Done():
			<-ackDone
			return ctx.Err()
		}
	}

	r.logger.Info("extraction finished",
		"messages", len(messages),
		"candidates", len(candidates),
	)
	return <-ackDone
}

// awaitAcks consumes acknowledgments until every pending message is
// confirmed. It owns the pending set once started.
func (r *Reader) awaitAcks(ctx context.Context, ackChan <-chan string, pending map[string]struct{}) error {
	for len(pending) > 0 {
		select {
		case id, ok := <-ackChan:
			if !ok {
				r.logger.Warn("acknowledgment channel closed", "remaining", len(pending))
				return fmt.Errorf("%d messages left unacknowledged", len(pending))
			}
			delete(pending, id)
			r.logger.Debug("message acknowledged", "message_id", id)
		case <-ctx.Done():
			r.logger.Warn("stopping with unacknowledged messages", "remaining", len(pending))
			return ctx.Err()
		}
	}
	return nil
}

// loadMessages decodes the backup file by extension.
func (r *Reader) loadMessages() ([]*api.Message, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("reading backup file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(r.path)) {
	case ".json":
		return parseJSON(data)
	case ".xml":
		return parseXML(data)
	default:
		return parseLines(data), nil
	}
}

// jsonMessage tolerates the two field spellings seen in backup exports.
type jsonMessage struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Body    string `json:"body"`
	Sender  string `json:"sender"`
	Address string `json:"address"`
	Date    string `json:"date"`
}

func (m jsonMessage) toMessage(index int) *api.Message {
	content := m.Content
	if content == "" {
		content = m.Body
	}
	sender := m.Sender
	if sender == "" {
		sender = m.Address
	}
	id := m.ID
	if id == "" {
		id = fmt.Sprintf("msg-%d", index+1)
	}
	return &api.Message{ID: id, Content: content, Sender: sender, Timestamp: m.Date}
}

func parseJSON(data []byte) ([]*api.Message, error) {
	var raw []jsonMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Some exports wrap the array in an envelope.
		var envelope struct {
			Messages []jsonMessage `json:"messages"`
		}
		if err2 := json.Unmarshal(data, &envelope); err2 != nil || envelope.Messages == nil {
			return nil, fmt.Errorf("parsing JSON backup: expected an array of messages or a \"messages\" key: %w", err)
		}
		raw = envelope.Messages
	}

	out := make([]*api.Message, 0, len(raw))
	for i, m := range raw {
		msg := m.toMessage(i)
		if msg.Content == "" {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

type xmlBackup struct {
	SMS []struct {
		Body    string `xml:"body,attr"`
		Address string `xml:"address,attr"`
		Date    string `xml:"date,attr"`
	} `xml:"sms"`
}

func parseXML(data []byte) ([]*api.Message, error) {
	var backup xmlBackup
	if err := xml.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("parsing XML backup: %w", err)
	}

	out := make([]*api.Message, 0, len(backup.SMS))
	for i, s := range backup.SMS {
		if s.Body == "" {
			continue
		}
		out = append(out, &api.Message{
			ID:        fmt.Sprintf("msg-%d", i+1),
			Content:   s.Body,
			Sender:    s.Address,
			Timestamp: s.Date,
		})
	}
	return out, nil
}

// parseLines treats each non-empty line as one message. Plain text carries
// no sender, so extraction relies on the content alone.
func parseLines(data []byte) []*api.Message {
	lines := strings.Split(string(data), "\n")
	out := make([]*api.Message, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, &api.Message{
			ID:      fmt.Sprintf("msg-%d", len(out)+1),
			Content: line,
			Sender:  "UNKNOWN",
		})
	}
	return out
}
