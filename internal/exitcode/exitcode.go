package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	ReadError       = 4
	ComputeError    = 5
	PersistError    = 6
)
