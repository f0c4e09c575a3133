package assistant

import "time"

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Category tags a message with how it should be rendered.
type Category string

const (
	CategoryText        Category = "text"
	CategorySummary     Category = "summary"
	CategoryFlashcard   Category = "flashcard"
	CategoryExplanation Category = "explanation"
)

// Message is one transcript entry. Messages are never modified after
// they are appended.
type Message struct {
	ID        int64     `json:"id" yaml:"id"`
	Content   string    `json:"content" yaml:"content"`
	Sender    Sender    `json:"sender" yaml:"sender"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Category  Category  `json:"category" yaml:"category"`
}

func (m Message) FromUser() bool { return m.Sender == SenderUser }

const greeting = "Hi! I'm your AI Study Assistant. I can help you with summaries, create flashcards, explain complex topics, and answer questions about your courses. What would you like to work on today?"
