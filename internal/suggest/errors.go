package suggest

// ParseError reports a gateway response that no usable answer could be
// recovered from. The operation is aborted and existing data stays
// untouched; the caller decides on a fallback.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return "suggest: " + e.Reason
}

// NetworkError reports an unreachable or failing gateway.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "suggest: gateway request failed: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
