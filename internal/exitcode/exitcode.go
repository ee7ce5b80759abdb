package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	CopyError       = 4
	LoadError       = 5
	CleanError      = 6
	WriteError      = 7
	ServeError      = 8
	QueryError      = 9
)
