package tribe

import "errors"

// Sentinel errors for the core operations. Handlers branch on these with
// errors.Is; the messages are the user-facing failure strings.
var (
	ErrUnauthorized       = errors.New("only admins can perform this action")
	ErrNotAMember         = errors.New("you are not a member of this tribe")
	ErrAlreadyMember      = errors.New("you are already a member of this tribe")
	ErrInvalidAmount      = errors.New("amount must be between 1 and 100")
	ErrInvalidName        = errors.New("name must be between 3 and 50 characters")
	ErrInvalidTitle       = errors.New("title must be between 1 and 100 characters")
	ErrInvalidCost        = errors.New("cost must be a positive number")
	ErrInvalidRole        = errors.New("role must be admin or member")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrAlreadyProcessed   = errors.New("this request has already been processed")
	ErrDuplicatePending   = errors.New("you already have a pending request for this reward")
	ErrLastAdmin          = errors.New("you are the last admin; promote another member before leaving, or delete the tribe")
	ErrGroupNotFound      = errors.New("tribe not found")
	ErrMemberNotFound     = errors.New("member not found")
	ErrRewardNotFound     = errors.New("reward not found")
	ErrRedemptionNotFound = errors.New("redemption request not found")
)

// IsConflict reports whether the error is a state conflict, typically from a
// race or a resubmitted action.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyProcessed) ||
		errors.Is(err, ErrDuplicatePending) ||
		errors.Is(err, ErrAlreadyMember) ||
		errors.Is(err, ErrLastAdmin)
}

// IsValidation reports whether the error is an input failing a business rule.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidTitle) ||
		errors.Is(err, ErrInvalidCost) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrInsufficientPoints)
}

// IsNotFound reports whether the error is a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrRewardNotFound) ||
		errors.Is(err, ErrRedemptionNotFound)
}

// IsAuthz reports whether the error is an authorization failure.
func IsAuthz(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotAMember)
}
