package renamer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"stave/internal/scanner"
)

// TerminalPrompter reads y/N/q answers line by line. Anything that is not a
// recognized confirm or quit reads as a decline; there is no re-prompt, which
// the [y/N/q] hint advertises by capitalizing the default.
type TerminalPrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewTerminalPrompter wires a prompter to the given streams, normally stdin
// and stderr.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{reader: bufio.NewReader(in), out: out}
}

func (p *TerminalPrompter) Confirm(rename scanner.PendingRename) (Answer, error) {
	fmt.Fprintf(p.out, "%s: rename %q -> %q? [y/N/q] ", rename.Path, rename.OldName, rename.NewName)

	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		// EOF with no pending input means the terminal went away; treat it
		// as quit rather than silently declining everything.
		if err == io.EOF {
			return AnswerQuit, nil
		}
		return AnswerDecline, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return AnswerConfirm, nil
	case "q", "quit":
		return AnswerQuit, nil
	default:
		return AnswerDecline, nil
	}
}
