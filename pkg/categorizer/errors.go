package categorizer

import "errors"

var (
	// ErrConfiguration means no credential was configured; no request was attempted.
	ErrConfiguration = errors.New("API key not found")
	// ErrTransport means the service could not be reached or did not complete the call.
	ErrTransport = errors.New("categorization request failed")
	// ErrCategorization means a response arrived but could not be parsed or violated the schema.
	ErrCategorization = errors.New("unparsable categorization response")
)
