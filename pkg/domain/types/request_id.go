package types

import "context"

// MaxRequestIDLength bounds ids accepted from clients
const MaxRequestIDLength = 128

// RequestID correlates a failed request with its log line and response
type RequestID string

func NewRequestID(ctx context.Context) RequestID {
	return RequestID(newUUID(ctx))
}

func (id RequestID) String() string {
	return string(id)
}

// IsValid reports whether id can be echoed back to a client: non-empty,
// bounded, and printable ASCII only.
func (id RequestID) IsValid() bool {
	if id == "" || len(id) > MaxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
