package payments

import (
	"strings"

	"github.com/mateoreynoso/tripline-backend/pkg/enums"
	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
)

// PaymentSource is the closed set of fundable source shapes. Dispatch is an
// explicit type switch in resolveSource, never field-presence sniffing.
type PaymentSource interface {
	isPaymentSource()
}

// CardSource is a freshly tokenized card nonce from the payment form.
type CardSource struct {
	Nonce string
}

// SavedCardSource is a card on file, vaulted with the gateway.
type SavedCardSource struct {
	CardID     string
	CustomerID string
}

// WalletSource is a digital wallet token (Apple Pay, Google Pay, Cash App).
type WalletSource struct {
	Token string
}

// BankTransferSource is an ACH token from the bank-link flow.
type BankTransferSource struct {
	Token string
}

func (CardSource) isPaymentSource()         {}
func (SavedCardSource) isPaymentSource()    {}
func (WalletSource) isPaymentSource()       {}
func (BankTransferSource) isPaymentSource() {}

type resolvedSource struct {
	sourceID   string
	customerID string
	method     enums.PaymentMethod
}

func resolveSource(source PaymentSource) (resolvedSource, error) {
	switch s := source.(type) {
	case CardSource:
		if strings.TrimSpace(s.Nonce) == "" {
			return resolvedSource{}, invalidSource("card nonce required")
		}
		return resolvedSource{sourceID: s.Nonce, method: enums.PaymentMethodCard}, nil
	case SavedCardSource:
		if strings.TrimSpace(s.CardID) == "" || strings.TrimSpace(s.CustomerID) == "" {
			return resolvedSource{}, invalidSource("saved card id and customer id required")
		}
		return resolvedSource{sourceID: s.CardID, customerID: s.CustomerID, method: enums.PaymentMethodSavedCard}, nil
	case WalletSource:
		if strings.TrimSpace(s.Token) == "" {
			return resolvedSource{}, invalidSource("wallet token required")
		}
		return resolvedSource{sourceID: s.Token, method: enums.PaymentMethodWallet}, nil
	case BankTransferSource:
		if strings.TrimSpace(s.Token) == "" {
			return resolvedSource{}, invalidSource("bank transfer token required")
		}
		return resolvedSource{sourceID: s.Token, method: enums.PaymentMethodBankTransfer}, nil
	case nil:
		return resolvedSource{}, invalidSource("payment source required")
	default:
		return resolvedSource{}, invalidSource("unsupported payment source")
	}
}

func invalidSource(msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, msg).
		WithDetails(map[string]string{"reason": "InvalidSource"})
}
