package validator

// Validator validates structs annotated with `validate` tags.
type Validator interface {
	// Validate returns nil when data satisfies its tags.
	Validate(data any) error
}

// Translator renders registered messages.
type Translator interface {
	// Translate renders the message registered under key, substituting
	// params for {0}, {1}, ... It returns key itself when unknown.
	Translate(key string, params ...string) string
}
