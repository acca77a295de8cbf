package domain

import (
	"errors"
	"time"
)

// MessageChannel identifies the delivery gateway for an outbound message.
type MessageChannel string

const (
	ChannelWhatsApp MessageChannel = "whatsapp"
	ChannelViber    MessageChannel = "viber"
)

// MessageKind tags what triggered the message; part of the dedup key so the
// same appointment never produces two reminders.
type MessageKind string

const (
	KindConfirmation MessageKind = "confirmation"
	KindReminder     MessageKind = "reminder"
	KindMagicLink    MessageKind = "magic_link"
)

var ErrUnknownChannel = errors.New("unknown message channel")

// OutboundMessage is a queued notification to a patient or user. To is a
// canonical international phone number; Ref identifies the triggering entity
// (appointment id, user id) for deduplication.
type OutboundMessage struct {
	ID        string         `json:"id"`
	ClinicID  string         `json:"clinic_id,omitempty"`
	Channel   MessageChannel `json:"channel"`
	Kind      MessageKind    `json:"kind"`
	To        string         `json:"to"`
	Body      string         `json:"body"`
	Ref       string         `json:"ref,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
