package domain

// Commands are the background units of work spawned by ingestion. They are
// enqueued after the message and all its markers are durably persisted, and
// they outlive the connection that produced them.

type LivePushCommand struct {
	Message Message
}

type TranslateCommand struct {
	Message    Message
	SourceLang string
}
