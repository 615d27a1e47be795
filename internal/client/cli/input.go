package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal seams, swapped in tests.
var (
	stdinIsTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	readPassword    = term.ReadPassword
)

// ReadLine shows "label: " and returns the next trimmed line. A final line
// without a newline is accepted; an empty stream is io.EOF.
func ReadLine(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadSecret asks for the password without echo when stdin is a terminal and
// falls back to a plain line otherwise, so "echo pw | certcli login" works.
// Callers wipe the result with common.WipeByteArray.
func ReadSecret(in *bufio.Reader, out io.Writer) ([]byte, error) {
	if !stdinIsTerminal() {
		line, err := ReadLine(in, out, "Password")
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}
	fmt.Fprint(out, "Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	return pw, err
}

// ReadParagraph collects lines until a blank one or the end of input and
// returns them joined by '\n'. Other read errors are returned.
func ReadParagraph(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s (finish with an empty line):\n", label)
	var b strings.Builder
	for {
		line, err := in.ReadString('\n')
		if line = strings.TrimRight(line, "\r\n"); line != "" {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(line)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return "", err
			}
			break
		}
		if line == "" {
			break
		}
	}
	return strings.TrimSpace(b.String()), nil
}
