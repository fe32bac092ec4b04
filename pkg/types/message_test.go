package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_String(t *testing.T) {
	m := &Message{
		ID:            42,
		MsgID:         `\xabc123`,
		Nonce:         7,
		Origin:        56,
		Destination:   22222,
		Sender:        `\xc27980812e2e66491fd457d488509b7e04144b98`,
		Recipient:     `\x4501bbe6e731a4bc5c60c03a77435b2f6d5e9fe7`,
		MsgBody:       `\x68656c6c6f`,
		OriginMailbox: `\x35231d4c2d8b8adcb5617a638a0c4548684c7c70`,
		OriginTxID:    99,
		TimeCreated:   "2023-08-01T12:00:00",
	}

	assert.Equal(t,
		`Message ID: \xabc123: destination: 22222, id: 42, nonce: 7, origin: 56, origin_mailbox: \x35231d4c2d8b8adcb5617a638a0c4548684c7c70, origin_tx_id: 99, recipient: \x4501bbe6e731a4bc5c60c03a77435b2f6d5e9fe7, sender: \xc27980812e2e66491fd457d488509b7e04144b98, time_created: 2023-08-01T12:00:00, msg_body: \x68656c6c6f`,
		m.String())
}

func TestMessageInfo_JSON(t *testing.T) {
	var info MessageInfo
	require.NoError(t, json.Unmarshal([]byte(`{"origin":1,"sender":"0x01","destination":2,"recipient":"DdTMkk9nuqH5LnD56HLkPiKMV3yB3BNEYSQfgmJHa5i7"}`), &info))

	assert.Equal(t, Domain(1), info.Origin)
	assert.Equal(t, Domain(2), info.Destination)
	assert.Equal(t, byte(1), info.Sender[31])
	assert.Equal(t, MustParseAddress("DdTMkk9nuqH5LnD56HLkPiKMV3yB3BNEYSQfgmJHa5i7"), info.Recipient)
}
