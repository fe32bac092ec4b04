package matchlist

import (
	"fmt"

	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
)

// Flat-cased input keys.
const (
	KeyOriginDomain      = "origindomain"
	KeySenderAddress     = "senderaddress"
	KeyDestinationDomain = "destinationdomain"
	KeyRecipientAddress  = "recipientaddress"
)

// ListElement combines four field filters with AND semantics.
// Zero-valued fields are wildcards.
type ListElement struct {
	OriginDomain      DomainFilter
	SenderAddress     AddressFilter
	DestinationDomain DomainFilter
	RecipientAddress  AddressFilter
}

// Matches reports whether every field filter accepts the message.
func (e ListElement) Matches(m types.MessageInfo) bool {
	return e.OriginDomain.Matches(m.Origin) &&
		e.SenderAddress.Matches(m.Sender) &&
		e.DestinationDomain.Matches(m.Destination) &&
		e.RecipientAddress.Matches(m.Recipient)
}

func (e ListElement) String() string {
	return fmt.Sprintf(
		"{originDomain: %s, senderAddress: %s, destinationDomain: %s, recipientAddress: %s}",
		e.OriginDomain,
		e.SenderAddress,
		e.DestinationDomain,
		e.RecipientAddress,
	)
}

// MarshalJSON emits the canonical query payload for this element.
func (e ListElement) MarshalJSON() ([]byte, error) {
	return e.Variables().MarshalJSON()
}
