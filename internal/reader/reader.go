// Package reader reads SQL statements one at a time from a terminal or a
// stream. Statements end at a semicolon that is not inside a string
// literal, quoted identifier or comment.
package reader

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/amoghmargoor/aswa/lexer"
	"github.com/amoghmargoor/aswa/token"
)

// ErrAborted is returned by Next when the user presses Ctrl-C at an
// interactive prompt. The partial statement is discarded and the reader
// can be used again.
var ErrAborted = liner.ErrPromptAborted

// Reader returns statements from its input source.
type Reader struct {
	buf    string
	eof    bool
	prompt prompter
}

func newReader(prompt prompter) *Reader {
	return &Reader{prompt: prompt}
}

// Close frees any resources acquired by this reader.
func (r *Reader) Close() error {
	return r.prompt.Close()
}

// Next returns the next statement without its terminating semicolon and
// with surrounding whitespace removed. The text in between is kept as
// written so that error positions refer to what the user typed. Text after
// the last semicolon is returned as a final statement. Next returns io.EOF
// when there is no more input.
func (r *Reader) Next() (string, error) {
	for {
		if stmt, rest, ok := split(r.buf); ok {
			r.buf = rest
			if blank(stmt) {
				continue
			}
			stmt = strings.TrimSpace(stmt)
			r.prompt.AppendHistory(stmt + ";")
			return stmt, nil
		}

		if r.eof {
			stmt := strings.TrimSpace(r.buf)
			r.buf = ""
			if blank(stmt) {
				return "", io.EOF
			}
			r.prompt.AppendHistory(stmt)
			return stmt, nil
		}

		var line string
		var err error
		if blank(r.buf) {
			line, err = r.prompt.InitialPrompt()
		} else {
			line, err = r.prompt.ContinuePrompt()
		}
		switch {
		case errors.Is(err, io.EOF):
			r.eof = true
		case errors.Is(err, ErrAborted):
			r.buf = ""
			return "", err
		case err != nil:
			return "", err
		}
		r.buf += line
	}
}

// split returns the text before the first statement terminator in buf and
// the text after it. ok is false when buf does not hold a complete
// statement yet.
func split(buf string) (stmt, rest string, ok bool) {
	for it, err := range lexer.New(buf, 0).All() {
		if err != nil {
			var lexErr *lexer.Error
			if !errors.As(err, &lexErr) || strings.HasPrefix(lexErr.Msg, "unterminated") {
				// More input may close the literal or comment.
				return "", buf, false
			}
			// The parser reports the error; end the statement at the next
			// semicolon so that input after it is still read.
			if i := strings.IndexByte(buf[lexErr.Pos.Offset:], ';'); i >= 0 {
				j := lexErr.Pos.Offset + i
				return buf[:j], buf[j+1:], true
			}
			return "", buf, false
		}
		if it.Token == token.SEMICOLON {
			return buf[:it.Pos.Offset], buf[it.End.Offset:], true
		}
	}
	return "", buf, false
}

// blank reports whether s holds nothing but whitespace and comments.
func blank(s string) bool {
	for it, err := range lexer.New(s, 0).All() {
		if err != nil {
			return false
		}
		if it.Token != token.COMMENT && it.Token != token.EOF {
			return false
		}
	}
	return true
}

type prompter interface {
	Close() error
	InitialPrompt() (string, error)
	ContinuePrompt() (string, error)
	AppendHistory(stmt string)
}

// noninteractive prompter just blindly reads from its input.
type noninteractive struct {
	input *bufio.Reader
}

// NewNonInteractive returns a Reader that reads statements from r. Useful
// for when the user is piping input from a file or another program.
func NewNonInteractive(r io.Reader) *Reader {
	return newReader(&noninteractive{bufio.NewReader(r)})
}

func (i *noninteractive) Close() error {
	return nil
}

func (i *noninteractive) InitialPrompt() (string, error) {
	return i.input.ReadString('\n')
}

func (i *noninteractive) ContinuePrompt() (string, error) {
	return i.input.ReadString('\n')
}

func (i *noninteractive) AppendHistory(string) {}

// interactive prompter provides a line editor with history.
type interactive struct {
	line        *liner.State
	prompt      string
	historyPath string
}

// NewInteractive returns a Reader that prompts the user for input. When
// historyPath is not empty, history is loaded from it and saved to it on
// Close.
func NewInteractive(prompt, historyPath string) *Reader {
	i := &interactive{
		line:        liner.NewLiner(),
		prompt:      prompt,
		historyPath: historyPath,
	}
	i.line.SetCtrlCAborts(true)
	i.line.SetMultiLineMode(true)
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = i.line.ReadHistory(f)
			f.Close()
		}
	}
	return newReader(i)
}

func (i *interactive) Close() error {
	var err error
	if i.historyPath != "" {
		var f *os.File
		if f, err = os.Create(i.historyPath); err == nil {
			_, err = i.line.WriteHistory(f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
	}
	if cerr := i.line.Close(); err == nil {
		err = cerr
	}
	return err
}

func (i *interactive) InitialPrompt() (string, error) {
	line, err := i.line.Prompt(i.prompt)
	return line + "\n", err
}

func (i *interactive) ContinuePrompt() (string, error) {
	line, err := i.line.Prompt(strings.Repeat(" ", max(len(i.prompt)-2, 0)) + "> ")
	return line + "\n", err
}

func (i *interactive) AppendHistory(stmt string) {
	i.line.AppendHistory(strings.Join(strings.Fields(stmt), " "))
}
