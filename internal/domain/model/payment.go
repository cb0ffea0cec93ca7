package model

import (
	"fmt"
	"strconv"
	"strings"

	"training-registration/internal/domain"
)

type OptionKind string

const (
	OptionFull    OptionKind = "full"
	OptionDeposit OptionKind = "deposit"
)

func ParseOptionKind(s string) (OptionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "total":
		return OptionFull, nil
	case "deposit", "frais":
		return OptionDeposit, nil
	default:
		return "", fmt.Errorf("payment option %q: %w", s, domain.ErrInvalidArgument)
	}
}

// PaymentOption is the amount the applicant chose to pay. The deposit is a
// flat registration fee that does not depend on the training price.
type PaymentOption struct {
	Kind   OptionKind `json:"kind"`
	Amount int64      `json:"amount"`
}

func NewPaymentOption(kind OptionKind, price, deposit int64) PaymentOption {
	if kind == OptionDeposit {
		return PaymentOption{Kind: OptionDeposit, Amount: deposit}
	}
	return PaymentOption{Kind: OptionFull, Amount: price}
}

// Channel is a mobile-money operator the applicant can pay through.
type Channel struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Account string `json:"account"`
	USSD    string `json:"-"`
}

// DialString fills the channel's USSD template.
func (c Channel) DialString(amount int64) string {
	r := strings.NewReplacer(
		"{account}", c.Account,
		"{amount}", strconv.FormatInt(amount, 10),
	)
	return r.Replace(c.USSD)
}

// TelURI builds the dialer link for a USSD code; '#' must be escaped.
func TelURI(code string) string {
	return "tel:" + strings.ReplaceAll(code, "#", "%23")
}

// ManualAction is what the applicant has to do by hand to pay.
type ManualAction struct {
	Channel      string `json:"channel"`
	ChannelLabel string `json:"channelLabel"`
	Amount       int64  `json:"amount"`
	Account      string `json:"account"`
	DialString   string `json:"dialString,omitempty"`
	TelURI       string `json:"telUri,omitempty"`
	Instructions string `json:"instructions"`
	CopyText     string `json:"copyText"`
}
