// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

// Package inbox stores contact form submissions and serves them to the admin.
package inbox

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/biozilla/internal/logging"
	"github.com/tomtom215/biozilla/internal/models"
	"github.com/tomtom215/biozilla/internal/store"
	"github.com/tomtom215/biozilla/internal/validation"
)

// ErrInvalid is returned for incomplete submissions.
var ErrInvalid = errors.New("invalid message")

// User-facing messages.
const (
	MessageSendFailed   = "Failed to send message."
	MessageDeleteFailed = "Failed to delete the message."
	MessageUpdateFailed = "Failed to update the message."
	MessageRequired     = "Name, email and message are required."
	MessageInvalidEmail = "Please enter a valid email address."
)

// MaxMessageLength bounds the message body in runes.
const MaxMessageLength = 5000

// Notifier is told about every acknowledged write.
type Notifier interface {
	CatalogChanged(ctx context.Context, change models.CatalogChange)
}

// Error pairs a failure with the text shown to the user.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the user-facing text carried by err, or "".
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// Submission is the public contact form.
type Submission struct {
	Name    string
	Email   string
	Message string
}

// Inbox reads and writes the messages collection directly; it keeps no mirror.
type Inbox struct {
	store    store.Store
	notifier Notifier
	now      func() time.Time
}

// New returns an inbox on s. notifier may be nil.
func New(s store.Store, notifier Notifier) *Inbox {
	return &Inbox{store: s, notifier: notifier, now: time.Now}
}

func (in *Inbox) notify(ctx context.Context, op string, id string) {
	if in.notifier == nil {
		return
	}
	in.notifier.CatalogChanged(ctx, models.CatalogChange{
		Collection: models.CollectionMessages,
		Op:         op,
		IDs:        []string{id},
		At:         in.now().UTC(),
	})
}

func validate(sub *Submission) error {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Message = strings.TrimSpace(sub.Message)
	if sub.Name == "" || sub.Email == "" || sub.Message == "" {
		return &Error{Message: MessageRequired, Err: ErrInvalid}
	}
	if verr := validation.ValidateVar("email", sub.Email, "email"); verr != nil {
		return &Error{Message: MessageInvalidEmail, Err: ErrInvalid}
	}
	if len([]rune(sub.Message)) > MaxMessageLength {
		return &Error{Message: fmt.Sprintf("Message must be at most %d characters.", MaxMessageLength), Err: ErrInvalid}
	}
	return nil
}

// Submit stores a new unread message.
func (in *Inbox) Submit(ctx context.Context, sub Submission) (models.Message, error) {
	if err := validate(&sub); err != nil {
		return models.Message{}, err
	}
	msg := models.Message{
		Name:      sub.Name,
		Email:     sub.Email,
		Message:   sub.Message,
		CreatedAt: models.FormatTimestamp(in.now()),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return models.Message{}, &Error{Message: MessageSendFailed, Err: err}
	}
	id, err := in.store.Add(ctx, models.CollectionMessages, data)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to store contact message")
		return models.Message{}, &Error{Message: MessageSendFailed, Err: err}
	}
	msg.ID = id
	in.notify(ctx, models.ChangeCreate, id)
	return msg, nil
}

// List returns every message, newest first. Messages with unparseable
// timestamps sort last.
func (in *Inbox) List(ctx context.Context) ([]models.Message, error) {
	docs, err := in.store.List(ctx, models.CollectionMessages)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	msgs, err := store.Decode(docs, func(m *models.Message, id string) { m.ID = id })
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(msgs, func(a, b models.Message) int {
		ta, okA := models.ParseTimestamp(a.CreatedAt)
		tb, okB := models.ParseTimestamp(b.CreatedAt)
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return cmp.Compare(a.ID, b.ID)
		}
	})
	return msgs, nil
}

// Unread counts messages not yet marked read.
func (in *Inbox) Unread(ctx context.Context) (int, error) {
	msgs, err := in.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range msgs {
		if !m.Read {
			n++
		}
	}
	return n, nil
}

// MarkRead sets the read flag of one message.
func (in *Inbox) MarkRead(ctx context.Context, id string, read bool) error {
	if err := in.store.Update(ctx, models.CollectionMessages, id, map[string]any{"read": read}); err != nil {
		return &Error{Message: MessageUpdateFailed, Err: err}
	}
	in.notify(ctx, models.ChangeUpdate, id)
	return nil
}

// Delete removes one message.
func (in *Inbox) Delete(ctx context.Context, id string) error {
	if err := in.store.Delete(ctx, models.CollectionMessages, id); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("message_id", id).Msg("Failed to delete message")
		return &Error{Message: MessageDeleteFailed, Err: err}
	}
	in.notify(ctx, models.ChangeDelete, id)
	return nil
}
