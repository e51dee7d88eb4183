package simulation

// loadDoneMsg arrives once a Load started by the screen has resolved.
type loadDoneMsg struct{}
