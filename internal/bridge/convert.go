package bridge

// Convert maps a chat request to the CLI input record. Pure composition:
// the prompt comes from the flattener, the model from the resolver, and the
// caller's user field passes through as the session key (empty stays empty).
// No other request field is read here; generation parameters are for the
// invocation layer to consult.
func Convert(req ChatRequest) CLIInput {
	return CLIInput{
		Prompt:    FlattenPrompt(req.Messages),
		Model:     ResolveModel(req.Model),
		SessionID: req.User,
	}
}
