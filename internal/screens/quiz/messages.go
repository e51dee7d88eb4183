package quiz

// loadDoneMsg is sent when a catalog load started by this screen resolves.
type loadDoneMsg struct{}
