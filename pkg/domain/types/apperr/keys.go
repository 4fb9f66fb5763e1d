package apperr

// Value keys read from goerr errors when they are turned into error
// responses. Set them with goerr.V, e.g. goerr.V(apperr.StatusKey, 404).
const (
	// StatusKey holds an int or numeric string HTTP status.
	StatusKey = "status"
	// DetailsKey holds a payload sent to the client as "details".
	DetailsKey = "details"
	// CauseKey holds a secondary error that is logged but never sent.
	CauseKey = "cause"
)

// Keys attached to configuration errors
const (
	OptionKey = "option"
	PathKey   = "path"
	TypeKey   = "type"
)
