package analysis

import "context"

// Generator is the remote text-generation capability. One attempt per call.
type Generator interface {
	Generate(ctx context.Context, prompt, systemInstruction string) (string, error)
}

// Recorder receives every settled result of an orchestrator.
type Recorder interface {
	Record(ctx context.Context, r *Record) error
}

// Repository port for persisting and querying analysis history
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Paginate(ctx context.Context, page, pageSize int) ([]*Record, error)
}

// ArchiveStore keeps a copy of generated markdown outside the database.
type ArchiveStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
