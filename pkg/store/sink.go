package store

// Sink receives serialized collection snapshots after a mutation commits to
// memory. Implementations must not block the caller.
type Sink interface {
	Save(key, value string)
	Delete(key string)
}

type discardSink struct{}

func (discardSink) Save(string, string) {}
func (discardSink) Delete(string)       {}

func sinkOrDiscard(s Sink) Sink {
	if s == nil {
		return discardSink{}
	}
	return s
}
