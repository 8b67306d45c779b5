package inventory

import "errors"

// ErrInsufficient reports a reservation that could not be served in
// full. The ledger is unchanged when it is returned.
var ErrInsufficient = errors.New("insufficient inventory")
