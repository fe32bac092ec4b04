package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/praetorian-inc/hyperlane-cli/pkg/mailbox"
	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// privateKeyEnv is consulted when --wallet is not given.
const privateKeyEnv = "HYPERLANE_PRIVATE_KEY"

var (
	sendDomain  string
	sendAddress string
	sendMessage string
	sendURL     string
	sendMailbox string
	sendWallet  string
	sendValue   string
	sendQuote   bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Dispatch a message through a Mailbox contract",
	Long: `Send calls dispatch(destinationDomain, recipientAddress, messageBody) on a
Hyperlane Mailbox contract and prints the transaction hash.

The signing key is taken from --wallet, then $` + privateKeyEnv + `, then an
interactive prompt.`,
	Example: `  hyperlane send --domain 13372 --address 0x4501bbe6e731a4bc5c60c03a77435b2f6d5e9fe7 --message 0x68656c6c6f \
    --url http://localhost:8545 --mailbox 0x35231d4c2d8b8adcb5617a638a0c4548684c7c70`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendDomain, "domain", "", "Destination domain id")
	sendCmd.Flags().StringVar(&sendAddress, "address", "", "Recipient address (hex or base58)")
	sendCmd.Flags().StringVar(&sendMessage, "message", "", "Message body as hex")
	sendCmd.Flags().StringVar(&sendURL, "url", "", "RPC URL (default: chain.rpc_url from config)")
	sendCmd.Flags().StringVar(&sendMailbox, "mailbox", "", "Mailbox contract address (default: chain.mailbox from config)")
	sendCmd.Flags().StringVarP(&sendWallet, "wallet", "w", "", "Private key in hex (default: $"+privateKeyEnv+" or prompt)")
	sendCmd.Flags().StringVar(&sendValue, "value", "", "Wei to attach to the dispatch")
	sendCmd.Flags().BoolVar(&sendQuote, "quote", false, "Attach the fee returned by quoteDispatch")
	sendCmd.MarkFlagRequired("domain")
	sendCmd.MarkFlagRequired("address")
	sendCmd.MarkFlagRequired("message")
}

// sendRequest is a validated send invocation.
type sendRequest struct {
	domain    types.Domain
	recipient types.Address
	body      []byte
	value     *big.Int
	rpcURL    string
	mailbox   string
}

func parseSendRequest() (sendRequest, error) {
	var (
		req sendRequest
		err error
	)
	if req.domain, err = types.ParseDomain(sendDomain); err != nil {
		return req, fmt.Errorf("invalid --domain: %w", err)
	}
	if req.recipient, err = types.ParseAddress(sendAddress); err != nil {
		return req, fmt.Errorf("invalid --address: %w", err)
	}
	if req.body, err = mailbox.ParseMessageBody(sendMessage); err != nil {
		return req, fmt.Errorf("invalid --message: %w", err)
	}
	if sendValue != "" {
		v, ok := new(big.Int).SetString(sendValue, 10)
		if !ok || v.Sign() < 0 {
			return req, fmt.Errorf("invalid --value %q", sendValue)
		}
		req.value = v
	}
	if sendQuote && req.value != nil {
		return req, fmt.Errorf("--quote and --value are mutually exclusive")
	}

	req.rpcURL = sendURL
	if req.rpcURL == "" {
		req.rpcURL = cfg.Chain.RPCURL
	}
	req.mailbox = sendMailbox
	if req.mailbox == "" {
		req.mailbox = cfg.Chain.Mailbox
	}
	if req.rpcURL == "" {
		return req, fmt.Errorf("--url is required (or chain.rpc_url in config)")
	}
	if req.mailbox == "" {
		return req, fmt.Errorf("--mailbox is required (or chain.mailbox in config)")
	}
	return req, nil
}

// resolvePrivateKey returns the signing key from the flag, the environment
// or, on a terminal, a no-echo prompt.
func resolvePrivateKey(cmd *cobra.Command) (string, error) {
	if sendWallet != "" {
		return sendWallet, nil
	}
	if key := os.Getenv(privateKeyEnv); key != "" {
		return key, nil
	}

	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return "", mailbox.ErrNoPrivateKey
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Private key: ")
	key, err := term.ReadPassword(int(in.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("reading private key: %w", err)
	}
	return strings.TrimSpace(string(key)), nil
}

func runSend(cmd *cobra.Command, args []string) error {
	req, err := parseSendRequest()
	if err != nil {
		return err
	}

	key, err := resolvePrivateKey(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := mailbox.NewDispatcher(ctx, mailbox.Config{
		RPCURL:     req.rpcURL,
		Mailbox:    req.mailbox,
		PrivateKey: key,
	})
	if err != nil {
		return err
	}
	defer d.Close()

	useColor, _ := colorEnabled("auto")
	s := newStyles(useColor)
	if sendQuote {
		fee, err := d.Quote(ctx, req.domain, req.recipient, req.body)
		if err != nil {
			return err
		}
		debugf(cmd, "quoted fee: %s wei", fee)
		req.value = fee
	}

	logf(cmd, "%s %s", s.heading.Sprint("Sending message to mailbox:"), d.Mailbox().Hex())
	debugf(cmd, "from %s to domain %s recipient %s (%d bytes)", d.From().Hex(), req.domain, req.recipient, len(req.body))

	hash, err := d.Dispatch(ctx, req.domain, req.recipient, req.body, req.value)
	if err != nil {
		return fmt.Errorf("failed to send transaction: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", s.heading.Sprint("Transaction sent:"), s.messageID.Sprint(hash.Hex()))
	return nil
}
