package main

// Exit codes. Every failure, including a declined overwrite, exits with 1.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// exitCodeFor returns the process exit code for err.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}
