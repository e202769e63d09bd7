package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// RetryDelays is the backoff ladder applied between attempts, indexed by the
// 1-based retry count. Each step doubles the previous one; the length of the
// ladder is the maximum number of retries for any job.
var RetryDelays = []time.Duration{
	5 * time.Second,  // attempt 1
	10 * time.Second, // attempt 2
	20 * time.Second, // attempt 3
}

// Topic manages a base topic name together with its derived retry and DLQ
// topic names.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// DLQ returns the dead-letter topic name (e.g. my_topic.dlq).
func (t Topic) DLQ() string {
	return t.base + ".dlq"
}

// GetRetryTopics returns the names of all retry topics for this base topic.
func (t Topic) GetRetryTopics() []string {
	topics := make([]string, len(RetryDelays))
	for i, delay := range RetryDelays {
		// topic name format: base.retry.5s
		topics[i] = fmt.Sprintf("%s.retry.%s", t.base, delay.String())
	}
	return topics
}

// GetRetryTopic returns the retry topic for the given 1-based retry count.
func (t Topic) GetRetryTopic(retryCount int) (string, error) {
	if retryCount <= 0 || retryCount > len(RetryDelays) {
		return "", ErrMaxRetryExceeded
	}
	delay := RetryDelays[retryCount-1]
	return fmt.Sprintf("%s.retry.%s", t.base, delay.String()), nil
}

// Event is the message payload carried on every queue topic.
type Event struct {
	ID        string          `json:"id"`
	JobID     string          `json:"job_id"`
	Payload   json.RawMessage `json:"payload"`
	Retry     int             `json:"retry"` // current retry count, 0 on first attempt
	MaxRetry  int             `json:"max_retry"`
	LastError string          `json:"last_error,omitempty"`
}

// EventHandler is the signature of per-stage processing functions.
type EventHandler func(ctx context.Context, event Event) error

// EventBus abstracts publishing and consuming pipeline jobs.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	// Subscribe consumes the base topic and runs the stage handler. Handler
	// failures are rescheduled on the retry ladder or dead-lettered.
	Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error
	// StartRetryReinjector consumes all retry topics and re-publishes events
	// to the base topic once their delay has elapsed.
	StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error
	Close()
}

// ErrMaxRetryExceeded is returned when an event has used up its retry budget.
var ErrMaxRetryExceeded = errors.New("max retry count exceeded")

// ErrRetryScheduleFailed is returned when a retry or DLQ publish fails.
var ErrRetryScheduleFailed = errors.New("failed to publish retry or DLQ event")
