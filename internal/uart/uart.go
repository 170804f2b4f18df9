// Package uart stands in for the host-side serial console the original
// firmware's recv_input/print_info/print_error/print_debug/print_success
// talk over (spec Section 6, "Host UART"). It reads operator commands
// and masked credentials, and writes the prefixed output lines the
// grading harness parses.
package uart

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Console is a line-oriented prompt over an input/output pair, with
// masked reads for PIN/token entry.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	masked bool // true once in is a terminal and masked reads are possible
}

// New creates a Console. fd is the file descriptor backing in, used for
// term.ReadPassword when in is a terminal; pass -1 if in is not a file
// (e.g. in tests), and ReadSecret falls back to an unmasked line read.
func New(in io.Reader, out io.Writer, fd int) *Console {
	return &Console{
		in:     bufio.NewReader(in),
		out:    out,
		fd:     fd,
		masked: fd >= 0 && term.IsTerminal(fd),
	}
}

// ReadLine reads one newline-terminated command line (spec Section 6,
// the original's REPL reading "list"/"boot"/"replace"/"attest").
func (c *Console) ReadLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadSecret prompts and reads a PIN or token without echoing it to the
// terminal (spec Section 6, the original's recv_input used for
// validate_pin/validate_token). When the input is not a terminal, it
// falls back to a plain line read so Consoles built over pipes in tests
// still work.
func (c *Console) ReadSecret(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.masked {
		return c.ReadLine()
	}
	secret, err := term.ReadPassword(c.fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// Debugf writes a "%debug " line (spec Section 6, print_debug).
func (c *Console) Debugf(format string, args ...any) {
	fmt.Fprintf(c.out, "%%debug "+format+"\n", args...)
}

// Infof writes a "%info " line (spec Section 6, print_info).
func (c *Console) Infof(format string, args ...any) {
	fmt.Fprintf(c.out, "%%info "+format+"\n", args...)
}

// Ackf writes a "%ack " line (spec Section 6, print_ack).
func (c *Console) Ackf(format string, args ...any) {
	fmt.Fprintf(c.out, "%%ack "+format+"\n", args...)
}

// Successf writes a "%success " line (spec Section 6, print_success).
func (c *Console) Successf(format string, args ...any) {
	fmt.Fprintf(c.out, "%%success "+format+"\n", args...)
}

// Errorf writes an "%error " line (spec Section 6, print_error).
func (c *Console) Errorf(format string, args ...any) {
	fmt.Fprintf(c.out, "%%error "+format+"\n", args...)
}
