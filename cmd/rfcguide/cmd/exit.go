package cmd

import "errors"

// exitError carries a specific process exit status.
// 0 = success, 1 = not found or issues reported, 2 = usage error.
// An empty msg means the command already reported the problem.
type exitError struct {
	code int
	msg  string
}

func (e exitError) Error() string {
	if e.msg == "" {
		return "exit status"
	}
	return e.msg
}

func notFound() error { return exitError{code: 1} }

func usageError(msg string) error { return exitError{code: 2, msg: msg} }

// ExitStatus maps an error returned by Execute to an exit code and the
// message to print (empty when nothing should be printed).
func ExitStatus(err error) (int, string) {
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code, ee.msg
	}
	return 1, err.Error()
}
