package subscription

import "errors"

var (
	// ErrNoOwner means a remote customer could not be matched to any local
	// user, neither by stored customer id nor by email. Fatal for the
	// reconciliation that hit it.
	ErrNoOwner = errors.New("no local user matches remote customer")

	// ErrNoCustomer means the user has no linked Stripe customer yet.
	ErrNoCustomer = errors.New("user has no linked stripe customer")
)
