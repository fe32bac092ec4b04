// Package types holds the domain, address and message types shared across
// the module.
package types

import "fmt"

// MessageInfo identifies a cross-chain message for matching purposes.
type MessageInfo struct {
	Origin      Domain  `json:"origin"`
	Sender      Address `json:"sender"`
	Destination Domain  `json:"destination"`
	Recipient   Address `json:"recipient"`
}

// Message is a dispatched message as recorded by the indexer.
// Byte columns (addresses, body, ids) keep the indexer's "\x"-prefixed hex form.
type Message struct {
	ID            int64  `json:"id"`
	MsgID         string `json:"msg_id"`
	Nonce         int64  `json:"nonce"`
	Origin        Domain `json:"origin"`
	Destination   Domain `json:"destination"`
	Sender        string `json:"sender"`
	Recipient     string `json:"recipient"`
	MsgBody       string `json:"msg_body"`
	OriginMailbox string `json:"origin_mailbox"`
	OriginTxID    int64  `json:"origin_tx_id"`
	TimeCreated   string `json:"time_created"`
}

// String renders the message on a single line.
func (m *Message) String() string {
	return fmt.Sprintf(
		"Message ID: %s: destination: %d, id: %d, nonce: %d, origin: %d, origin_mailbox: %s, origin_tx_id: %d, recipient: %s, sender: %s, time_created: %s, msg_body: %s",
		m.MsgID,
		m.Destination,
		m.ID,
		m.Nonce,
		m.Origin,
		m.OriginMailbox,
		m.OriginTxID,
		m.Recipient,
		m.Sender,
		m.TimeCreated,
		m.MsgBody,
	)
}
