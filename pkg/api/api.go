// Package api defines the core data structures and interfaces for financeflow.
package api

import "context"

// Kind is the direction of a transaction.
type Kind string

const (
	// Income is money coming in.
	Income Kind = "income"
	// Expense is money going out.
	Expense Kind = "expense"
)

// Frequency is how often a recurring bill repeats.
type Frequency string

const (
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

// SourceSMS marks records extracted from bank notification messages.
const SourceSMS = "sms"

// SourceManual marks records entered by hand.
const SourceManual = "manual"

// Candidate is an extracted, unsaved transaction pending user review.
// It carries no ID, date, or creation time; the store layer assigns those
// on confirmation. Merchant and Account are nil when not found in the
// message text.
type Candidate struct {
	Kind        Kind    `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Merchant    *string `json:"merchant,omitempty"`
	Account     *string `json:"account,omitempty"`
	Source      string  `json:"source"`
	// MessageID is the originating message ID (used for acknowledgment
	// after a successful write).
	MessageID string `json:"-"`
}

// Transaction is a confirmed financial record.
type Transaction struct {
	ID          string  `json:"id"`
	Kind        Kind    `json:"type"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	// Date is the transaction date in YYYY-MM-DD form.
	Date string `json:"date"`
	// CreatedAt is the record creation time in RFC 3339 form.
	CreatedAt string  `json:"createdAt"`
	Source    string  `json:"source,omitempty"`
	Merchant  *string `json:"merchant,omitempty"`
	Account   *string `json:"account,omitempty"`
}

// Bill is a one-off or recurring payment obligation.
type Bill struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	// DueDate is the next due date in YYYY-MM-DD form.
	DueDate   string     `json:"dueDate"`
	Category  string     `json:"category"`
	Paid      bool       `json:"isPaid"`
	Recurring bool       `json:"isRecurring"`
	Frequency *Frequency `json:"frequency,omitempty"`
	CreatedAt string     `json:"createdAt"`
}

// Message is a raw SMS record as found in a message backup.
type Message struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
}

// Reader reads messages from a source, extracts candidates, and sends them
// to the provided channel. Implementations close the channel when done or
// on error. The ackChan receives IDs of messages whose candidates were
// successfully written.
type Reader interface {
	Read(ctx context.Context, out chan<- *Candidate, ackChan <-chan string) error
}

// Writer consumes candidates from a channel and persists them.
// Successfully written candidate message IDs are sent to the ackChan.
type Writer interface {
	Write(ctx context.Context, in <-chan *Candidate, ackChan chan<- string) error
}
