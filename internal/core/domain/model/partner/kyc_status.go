package partner

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// KYCStatus is the verification state the KYC collaborator reports for a partner.
// Only Approved partners may go online and claim orders.
type KYCStatus int

const (
	KYCUnknown KYCStatus = iota
	KYCNotSubmitted
	KYCPending
	KYCApproved
	KYCRejected
)

func getKYCStatusStrings() map[KYCStatus]string {
	return map[KYCStatus]string{
		KYCUnknown:      "unknown",
		KYCNotSubmitted: "not_submitted",
		KYCPending:      "pending",
		KYCApproved:     "approved",
		KYCRejected:     "rejected",
	}
}

// ParseKYCStatus converts the persisted name back into a KYCStatus.
func ParseKYCStatus(s string) (KYCStatus, error) {
	for status, name := range getKYCStatusStrings() {
		if status != KYCUnknown && name == s {
			return status, nil
		}
	}
	return KYCUnknown, errs.NewValueIsInvalidErrorWithCause("kyc status is invalid", fmt.Errorf("%q is not a valid kyc status", s))
}

func (s KYCStatus) Validate() error {
	if s <= KYCUnknown || s > KYCRejected {
		return errs.NewValueIsInvalidErrorWithCause("kyc status is invalid", fmt.Errorf("%d is not a valid kyc status", s))
	}
	return nil
}

func (s KYCStatus) String() string {
	if str, ok := getKYCStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsApproved reports whether the partner passed verification.
func (s KYCStatus) IsApproved() bool {
	return s == KYCApproved
}
