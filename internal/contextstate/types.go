package contextstate

// ReadError is the captured failure of the last filesystem read. It is
// data on the entity, not a returned error.
type ReadError struct {
	Message string
}

func (e *ReadError) Error() string { return e.Message }

// FileContent is either Text or Err.
type FileContent struct {
	Text string
	Err  *ReadError
}

// DirectoryEntry describes one child of a tracked directory.
type DirectoryEntry struct {
	Name        string
	IsFile      bool
	IsDirectory bool
}

// DirectoryEntries is either Entries or Err.
type DirectoryEntries struct {
	Entries []DirectoryEntry
	Err     *ReadError
}

// ContextFile is a tracked file. Values handed out by State are snapshots;
// they are replaced, never modified, when the file changes.
type ContextFile struct {
	Path             string
	InclusionReasons []InclusionReason
	Content          FileContent
}

// ContextDirectory is a tracked directory.
type ContextDirectory struct {
	Path             string
	InclusionReasons []InclusionReason
	Entries          DirectoryEntries
}
