package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/praetorian-inc/hyperlane-cli/pkg/config"
	"github.com/praetorian-inc/hyperlane-cli/pkg/mailbox"
	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setSendFlags assigns the send flag variables and restores them afterwards.
func setSendFlags(t *testing.T, domain, address, message, url, mbox, value string) {
	t.Helper()
	saved := []string{sendDomain, sendAddress, sendMessage, sendURL, sendMailbox, sendValue, sendWallet}
	savedQuote := sendQuote
	t.Cleanup(func() {
		sendDomain, sendAddress, sendMessage, sendURL, sendMailbox, sendValue, sendWallet = saved[0], saved[1], saved[2], saved[3], saved[4], saved[5], saved[6]
		sendQuote = savedQuote
	})
	sendDomain, sendAddress, sendMessage, sendURL, sendMailbox, sendValue = domain, address, message, url, mbox, value
	sendWallet = ""
	sendQuote = false
}

func TestParseSendRequest(t *testing.T) {
	useConfig(t, config.Default())
	setSendFlags(t, "13372", "DdTMkk9nuqH5LnD56HLkPiKMV3yB3BNEYSQfgmJHa5i7", "0x68656c6c6f", "http://localhost:8545", "0x35231d4c2d8b8adcb5617a638a0c4548684c7c70", "1000")

	req, err := parseSendRequest()
	require.NoError(t, err)
	assert.Equal(t, types.Domain(13372), req.domain)
	assert.Equal(t, types.MustParseAddress("DdTMkk9nuqH5LnD56HLkPiKMV3yB3BNEYSQfgmJHa5i7"), req.recipient)
	assert.Equal(t, []byte("hello"), req.body)
	assert.Equal(t, "1000", req.value.String())
	assert.Equal(t, "http://localhost:8545", req.rpcURL)
}

func TestParseSendRequest_ConfigFallback(t *testing.T) {
	c := config.Default()
	c.Chain.RPCURL = "http://rpc.example"
	c.Chain.Mailbox = "0x35231d4c2d8b8adcb5617a638a0c4548684c7c70"
	useConfig(t, c)
	setSendFlags(t, "0x38", "0x4501bbe6e731a4bc5c60c03a77435b2f6d5e9fe7", "", "", "", "")

	req, err := parseSendRequest()
	require.NoError(t, err)
	assert.Equal(t, types.Domain(56), req.domain)
	assert.Equal(t, "http://rpc.example", req.rpcURL)
	assert.Equal(t, c.Chain.Mailbox, req.mailbox)
	assert.Nil(t, req.value)
	assert.Empty(t, req.body)
}

func TestParseSendRequest_Errors(t *testing.T) {
	const (
		addr = "0x4501bbe6e731a4bc5c60c03a77435b2f6d5e9fe7"
		url  = "http://localhost:8545"
		mbox = "0x35231d4c2d8b8adcb5617a638a0c4548684c7c70"
	)
	tests := []struct {
		name                                   string
		domain, address, message, url, mailbox string
		value                                  string
		want                                   string
	}{
		{name: "domain range", domain: "4294967296", address: addr, url: url, mailbox: mbox, want: "invalid --domain"},
		{name: "address", domain: "1", address: "0xnothex", url: url, mailbox: mbox, want: "invalid --address"},
		{name: "message", domain: "1", address: addr, message: "0xabc", url: url, mailbox: mbox, want: "invalid --message"},
		{name: "value", domain: "1", address: addr, url: url, mailbox: mbox, value: "-5", want: "invalid --value"},
		{name: "no url", domain: "1", address: addr, mailbox: mbox, want: "--url is required"},
		{name: "no mailbox", domain: "1", address: addr, url: url, want: "--mailbox is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useConfig(t, config.Default())
			setSendFlags(t, tt.domain, tt.address, tt.message, tt.url, tt.mailbox, tt.value)

			_, err := parseSendRequest()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestResolvePrivateKey(t *testing.T) {
	setSendFlags(t, "", "", "", "", "", "")
	cmd := &cobra.Command{}
	cmd.SetErr(&bytes.Buffer{})

	sendWallet = "0xabc"
	key, err := resolvePrivateKey(cmd)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", key)

	sendWallet = ""
	t.Setenv(privateKeyEnv, "0xdef")
	key, err = resolvePrivateKey(cmd)
	require.NoError(t, err)
	assert.Equal(t, "0xdef", key)
}

func TestRunSend_NoKey(t *testing.T) {
	useConfig(t, config.Default())
	setSendFlags(t, "1", "0x4501bbe6e731a4bc5c60c03a77435b2f6d5e9fe7", "0x00", "http://localhost:8545", "0x35231d4c2d8b8adcb5617a638a0c4548684c7c70", "")
	t.Setenv(privateKeyEnv, "")

	cmd := &cobra.Command{}
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(""))

	err := runSend(cmd, nil)
	assert.ErrorIs(t, err, mailbox.ErrNoPrivateKey)
}
