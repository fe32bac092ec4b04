// Package mailbox submits messages to a Hyperlane Mailbox contract.
package mailbox

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
)

// ABI is the subset of the Mailbox interface used here.
const ABI = `[
  {
    "type": "function",
    "name": "dispatch",
    "stateMutability": "payable",
    "inputs": [
      {"name": "destinationDomain", "type": "uint32"},
      {"name": "recipientAddress", "type": "bytes32"},
      {"name": "messageBody", "type": "bytes"}
    ],
    "outputs": [{"name": "messageId", "type": "bytes32"}]
  },
  {
    "type": "function",
    "name": "quoteDispatch",
    "stateMutability": "view",
    "inputs": [
      {"name": "destinationDomain", "type": "uint32"},
      {"name": "recipientAddress", "type": "bytes32"},
      {"name": "messageBody", "type": "bytes"}
    ],
    "outputs": [{"name": "fee", "type": "uint256"}]
  }
]`

// ErrNoPrivateKey is returned when no signing key was supplied.
var ErrNoPrivateKey = errors.New("no private key")

var parsedABI = func() abi.ABI {
	a, err := abi.JSON(strings.NewReader(ABI))
	if err != nil {
		panic(fmt.Sprintf("mailbox ABI: %v", err))
	}
	return a
}()

// Config configures a Dispatcher.
type Config struct {
	RPCURL     string
	Mailbox    string // contract address, 0x hex
	PrivateKey string // hex, with or without 0x
}

// Dispatcher sends dispatch transactions from a single key.
type Dispatcher struct {
	client   *ethclient.Client
	contract *bind.BoundContract
	mailbox  common.Address
	key      *ecdsa.PrivateKey
	chainID  *big.Int
}

// NewDispatcher dials the RPC endpoint and binds the Mailbox contract.
func NewDispatcher(ctx context.Context, cfg Config) (*Dispatcher, error) {
	if cfg.RPCURL == "" {
		return nil, errors.New("rpc url is required")
	}
	if !common.IsHexAddress(cfg.Mailbox) {
		return nil, fmt.Errorf("invalid mailbox address %q", cfg.Mailbox)
	}
	key, err := ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", cfg.RPCURL, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("fetching chain id: %w", err)
	}

	mailbox := common.HexToAddress(cfg.Mailbox)
	return &Dispatcher{
		client:   client,
		contract: bind.NewBoundContract(mailbox, parsedABI, client, client, client),
		mailbox:  mailbox,
		key:      key,
		chainID:  chainID,
	}, nil
}

// Mailbox returns the bound contract address.
func (d *Dispatcher) Mailbox() common.Address {
	return d.mailbox
}

// From returns the sending account.
func (d *Dispatcher) From() common.Address {
	return crypto.PubkeyToAddress(d.key.PublicKey)
}

// Quote returns the fee the Mailbox requires for a dispatch.
func (d *Dispatcher) Quote(ctx context.Context, destination types.Domain, recipient types.Address, body []byte) (*big.Int, error) {
	var out []any
	err := d.contract.Call(&bind.CallOpts{Context: ctx, From: d.From()}, &out, "quoteDispatch", uint32(destination), [32]byte(recipient), body)
	if err != nil {
		return nil, fmt.Errorf("quoting dispatch: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("quoting dispatch: unexpected %d outputs", len(out))
	}
	fee, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("quoting dispatch: unexpected output %T", out[0])
	}
	return fee, nil
}

// Dispatch sends dispatch(destination, recipient, body) with value attached
// and returns the transaction hash. A nil value sends no ether.
func (d *Dispatcher) Dispatch(ctx context.Context, destination types.Domain, recipient types.Address, body []byte, value *big.Int) (common.Hash, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(d.key, d.chainID)
	if err != nil {
		return common.Hash{}, fmt.Errorf("creating transactor: %w", err)
	}
	opts.Context = ctx
	opts.Value = value

	tx, err := d.contract.Transact(opts, "dispatch", uint32(destination), [32]byte(recipient), body)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sending dispatch: %w", err)
	}
	return tx.Hash(), nil
}

// Close closes the RPC connection.
func (d *Dispatcher) Close() {
	d.client.Close()
}

// PackDispatch returns the calldata for dispatch(destination, recipient, body).
func PackDispatch(destination types.Domain, recipient types.Address, body []byte) ([]byte, error) {
	return parsedABI.Pack("dispatch", uint32(destination), [32]byte(recipient), body)
}

// ParseMessageBody decodes a hex message body; the 0x prefix is optional.
func ParseMessageBody(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(strings.ToLower(s[:2]) + s[2:])
	if err != nil {
		return nil, fmt.Errorf("invalid message body: %w", err)
	}
	return b, nil
}

// ParsePrivateKey parses a secp256k1 key in hex; the 0x prefix is optional.
func ParsePrivateKey(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrNoPrivateKey
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}
