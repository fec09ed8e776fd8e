package importer

// Worker is a background import job polled by id until Done.
type Worker interface {
	StartWork()
	Done() bool
	// Progress is the share of puzzles processed, from 0 to 1.
	Progress() float64
	Result() Report
	Error() error
}
