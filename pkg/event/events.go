package event

// Event names.
const (
	FSCreated    = "fs.created"
	FSDeleted    = "fs.deleted"
	FSRenamed    = "fs.renamed"
	FSChanged    = "fs.changed"
	SessionSaved = "session.saved"
)

// FSCreatedEvent is emitted when a file/directory is created.
type FSCreatedEvent struct {
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
}

func (e FSCreatedEvent) EventName() string { return FSCreated }

// FSDeletedEvent is emitted when a file/directory is deleted.
type FSDeletedEvent struct {
	Path string `json:"path"`
}

func (e FSDeletedEvent) EventName() string { return FSDeleted }

// FSRenamedEvent is emitted when a file/directory is renamed.
type FSRenamedEvent struct {
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
}

func (e FSRenamedEvent) EventName() string { return FSRenamed }

// FSChangedEvent is emitted when a file's content is written.
type FSChangedEvent struct {
	Path string `json:"path"`
}

func (e FSChangedEvent) EventName() string { return FSChanged }

// SessionSavedEvent is emitted after the panel session is persisted.
type SessionSavedEvent struct {
	Panels int `json:"panels"`
}

func (e SessionSavedEvent) EventName() string { return SessionSaved }
