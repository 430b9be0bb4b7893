package garage

import "fmt"

// ErrorKind classifies store failures for callers that map them to
// user-facing messages.
type ErrorKind string

const (
	// KindVehicleNotSelected means an operation needed a current vehicle.
	KindVehicleNotSelected ErrorKind = "vehicle_not_selected"
	// KindIncompatiblePart means a compatibility axis rejected the part.
	KindIncompatiblePart ErrorKind = "incompatible_part"
	// KindInsufficientFunds means the ledger rejected the debit.
	KindInsufficientFunds ErrorKind = "insufficient_funds"
	// KindBuildNotFound means a saved-build id did not resolve.
	KindBuildNotFound ErrorKind = "build_not_found"
	// KindUnknownPart means a part id did not resolve against the catalog.
	KindUnknownPart ErrorKind = "unknown_part"
)

// StoreError is the typed failure returned across the store's public
// contract. The store never panics at that boundary.
type StoreError struct {
	Kind   ErrorKind
	Reason string
}

func (e *StoreError) Error() string {
	if e.Reason == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func errVehicleNotSelected() *StoreError {
	return &StoreError{Kind: KindVehicleNotSelected, Reason: "no vehicle selected"}
}

func errIncompatible(reason string) *StoreError {
	return &StoreError{Kind: KindIncompatiblePart, Reason: reason}
}

func errInsufficientFunds(price, balance float64) *StoreError {
	return &StoreError{
		Kind:   KindInsufficientFunds,
		Reason: fmt.Sprintf("part costs %.2f, balance is %.2f", price, balance),
	}
}

func errBuildNotFound(id string) *StoreError {
	return &StoreError{Kind: KindBuildNotFound, Reason: fmt.Sprintf("no saved build %q", id)}
}

func errUnknownPart(id string) *StoreError {
	return &StoreError{Kind: KindUnknownPart, Reason: fmt.Sprintf("part %q not in catalog", id)}
}

// AsStoreError unwraps err into a *StoreError if it is one.
func AsStoreError(err error) (*StoreError, bool) {
	se, ok := err.(*StoreError)
	return se, ok
}
