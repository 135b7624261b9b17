package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// PasswordReader reads a password without echoing it.
type PasswordReader func() (string, error)

// TerminalPassword returns a PasswordReader for f when f is a terminal,
// and nil otherwise.
func TerminalPassword(f *os.File) PasswordReader {
	fd := f.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return nil
	}
	return func() (string, error) {
		b, err := term.ReadPassword(int(fd))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// prompter reads one trimmed line per prompt. End of input surfaces as
// io.EOF and cancellation of ctx as ctx.Err(), even while a read blocks.
type prompter struct {
	ctx      context.Context
	in       *bufio.Reader
	out      io.Writer
	password PasswordReader

	// pending carries the result of a read still in flight. A read
	// abandoned by cancellation is picked up by the next prompt.
	pending chan readResult
}

type readResult struct {
	text string
	err  error
}

func newPrompter(in io.Reader, out io.Writer, password PasswordReader) *prompter {
	return &prompter{ctx: context.Background(), in: bufio.NewReader(in), out: out, password: password}
}

// await runs read in the background, at most one at a time, and waits
// for its result or for ctx to end.
func (p *prompter) await(read func() (string, error)) (string, error) {
	if err := p.ctx.Err(); err != nil {
		return "", err
	}
	if p.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			text, err := read()
			ch <- readResult{text: text, err: err}
		}()
		p.pending = ch
	}
	select {
	case <-p.ctx.Done():
		return "", p.ctx.Err()
	case r := <-p.pending:
		p.pending = nil
		return r.text, r.err
	}
}

// ask prints prompt and returns the next input line, trimmed. A final
// line without a newline is still returned.
func (p *prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.await(func() (string, error) {
		return p.in.ReadString('\n')
	})
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askLower is ask with the answer lower-cased for token matching.
func (p *prompter) askLower(prompt string) (string, error) {
	v, err := p.ask(prompt)
	return strings.ToLower(v), err
}

// askPassword reads without echo when a PasswordReader is set.
func (p *prompter) askPassword(prompt string) (string, error) {
	if p.password == nil {
		return p.ask(prompt)
	}
	fmt.Fprint(p.out, prompt)
	v, err := p.await(p.password)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

// confirm asks until the answer is Y or N.
func (p *prompter) confirm(prompt string) (bool, error) {
	for {
		v, err := p.ask(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToUpper(v) {
		case "Y":
			return true, nil
		case "N":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please enter Y or N.")
	}
}

// askValid asks until check accepts the answer, printing each rejection.
func (p *prompter) askValid(prompt string, check func(string) (string, error)) (string, error) {
	for {
		v, err := p.ask(prompt)
		if err != nil {
			return "", err
		}
		out, err := check(v)
		if err == nil {
			return out, nil
		}
		fmt.Fprintln(p.out, err.Error())
	}
}
