package dispatcher

import "errors"

// ErrUnknownCommand is returned for an operator command line the REPL
// does not recognize (spec Section 4.9, "AP command REPL").
var ErrUnknownCommand = errors.New("dispatcher: unrecognized command")
