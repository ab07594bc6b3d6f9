package weather

// QueryResult is the outcome of a read. The payload is a snapshot, never a live view.
type QueryResult struct {
	items   []Forecast
	success bool
	message string
}

// QuerySucceeded wraps copies of items in a successful result.
func QuerySucceeded(items []Forecast, message string) QueryResult {
	return QueryResult{items: CloneAll(items), success: true, message: message}
}

// QueryFailed returns an unsuccessful result with an empty payload.
func QueryFailed(message string) QueryResult {
	return QueryResult{items: []Forecast{}, message: message}
}

func (r QueryResult) Success() bool   { return r.success }
func (r QueryResult) Message() string { return r.message }

// Items returns a fresh copy of the payload on every call.
func (r QueryResult) Items() []Forecast {
	return CloneAll(r.items)
}

// CommandResult is the outcome of a mutation. It carries no payload.
type CommandResult struct {
	success bool
	message string
}

func CommandSucceeded(message string) CommandResult {
	return CommandResult{success: true, message: message}
}

func CommandFailed(message string) CommandResult {
	return CommandResult{message: message}
}

func (r CommandResult) Success() bool   { return r.success }
func (r CommandResult) Message() string { return r.message }
