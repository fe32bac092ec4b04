package mailbox

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

func TestPackDispatch(t *testing.T) {
	recipient := types.MustParseAddress("0x4501bbe6e731a4bc5c60c03a77435b2f6d5e9fe7")
	body := []byte("hello")

	data, err := PackDispatch(types.Domain(13372), recipient, body)
	require.NoError(t, err)

	selector := crypto.Keccak256([]byte("dispatch(uint32,bytes32,bytes)"))[:4]
	assert.Equal(t, selector, data[:4])

	values, err := parsedABI.Methods["dispatch"].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, uint32(13372), values[0])
	assert.Equal(t, [32]byte(recipient), values[1])
	assert.Equal(t, body, values[2])
}

func TestParseMessageBody(t *testing.T) {
	tests := []struct {
		input   string
		want    []byte
		wantErr bool
	}{
		{input: "0x68656c6c6f", want: []byte("hello")},
		{input: "68656C6C6F", want: []byte("hello")},
		{input: "0X00ff", want: []byte{0x00, 0xff}},
		{input: "", want: []byte{}},
		{input: "0xabc", wantErr: true},
		{input: "hello", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMessageBody(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePrivateKey(t *testing.T) {
	key, err := ParsePrivateKey("0x" + testKey)
	require.NoError(t, err)
	assert.Equal(t, "0x71562b71999873DB5b286dF957af199Ec94617F7", crypto.PubkeyToAddress(key.PublicKey).Hex())

	_, err = ParsePrivateKey("  ")
	assert.ErrorIs(t, err, ErrNoPrivateKey)

	_, err = ParsePrivateKey("1234")
	assert.Error(t, err)
}

func TestNewDispatcher_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "no rpc", cfg: Config{Mailbox: "0x35231d4c2d8b8adcb5617a638a0c4548684c7c70", PrivateKey: testKey}, want: "rpc url is required"},
		{name: "bad mailbox", cfg: Config{RPCURL: "http://localhost:8545", Mailbox: "mailbox", PrivateKey: testKey}, want: "invalid mailbox address"},
		{name: "no key", cfg: Config{RPCURL: "http://localhost:8545", Mailbox: "0x35231d4c2d8b8adcb5617a638a0c4548684c7c70"}, want: "no private key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDispatcher(context.Background(), tt.cfg)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
