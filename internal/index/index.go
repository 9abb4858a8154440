package index

// ThreadIndex defines the interface for thread summary indexing.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type ThreadIndex interface {
	UpsertThread(row ThreadRow, body string) error
	DeleteThread(path string) error
	GetThread(path string) (*ThreadRow, error)
	GetChecksum(path string) (string, error)
	ListThreads(repo string) ([]ThreadRow, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllChecksums() (map[string]string, error)
	RepoOrder() ([]string, error)
	SetRepoOrder(order []string) error
	ThreadOrder(repo string) ([]string, error)
	SetThreadOrder(repo string, order []string) error
	Close() error
}

// Verify *DB satisfies ThreadIndex at compile time.
var _ ThreadIndex = (*DB)(nil)
