package terminal

import (
	"bufio"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"os"

	pwquality "github.com/debarshiray/libpwquality"
	"golang.org/x/term"
)

const mismatchMessage = "Sorry, passwords do not match."

// Session drives a password change on an interactive terminal. Prompts go to
// the session writer; secrets are read with echo disabled when the input is a
// real terminal, and line by line otherwise so scripts and tests can feed it.
//
// A Session carries the item store for exactly one change conversation and is
// not safe for concurrent use.
type Session struct {
	out    io.Writer
	reader *bufio.Reader
	fd     int
	items  map[pwquality.Item]string
}

// NewSession returns a session bound to the process stdin and stdout.
func NewSession() *Session {
	return &Session{
		out:    os.Stdout,
		reader: bufio.NewReader(os.Stdin),
		fd:     int(os.Stdin.Fd()),
		items:  make(map[pwquality.Item]string),
	}
}

// NewSessionWithIO returns a session reading line-buffered input from in and
// writing prompts to out. Echo suppression is skipped.
func NewSessionWithIO(in io.Reader, out io.Writer) *Session {
	return &Session{
		out:    out,
		reader: bufio.NewReader(in),
		fd:     -1,
		items:  make(map[pwquality.Item]string),
	}
}

func (s *Session) GetItem(ctx context.Context, item pwquality.Item) (string, error) {
	switch item {
	case pwquality.ItemOldAuthTok, pwquality.ItemAuthTok, pwquality.ItemAuthTokType:
		return s.items[item], nil
	default:
		return "", errors.New("unknown item " + item.String())
	}
}

func (s *Session) SetItem(ctx context.Context, item pwquality.Item, value string) error {
	switch item {
	case pwquality.ItemOldAuthTok, pwquality.ItemAuthTok, pwquality.ItemAuthTokType:
		if value == "" {
			delete(s.items, item)
			return nil
		}
		s.items[item] = value
		return nil
	default:
		return errors.New("unknown item " + item.String())
	}
}

func (s *Session) GetAuthTok(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	token, err := s.readPassword("New " + s.typeLabel() + "password: ")
	if err != nil {
		return "", false, err
	}
	if token == "" {
		return "", false, nil
	}

	s.items[pwquality.ItemAuthTok] = token
	return token, true, nil
}

func (s *Session) VerifyAuthTok(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	retyped, err := s.readPassword("Retype new " + s.typeLabel() + "password: ")
	if err != nil {
		return false, err
	}
	if retyped == "" {
		return false, nil
	}

	pending := s.items[pwquality.ItemAuthTok]
	if subtle.ConstantTimeCompare([]byte(pending), []byte(retyped)) != 1 {
		fmt.Fprintln(s.out, mismatchMessage)
		return false, errors.New("passwords do not match")
	}

	return true, nil
}

func (s *Session) Error(ctx context.Context, msg string) {
	fmt.Fprintln(s.out, msg)
}

// AskOldAuthTok prompts for the caller's current password and stores it under
// ItemOldAuthTok so checkers can compare candidates against it. An empty line
// leaves the item unset and is not an error.
func (s *Session) AskOldAuthTok(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	current, err := s.readPassword("Current " + s.typeLabel() + "password: ")
	if err != nil {
		return err
	}
	if current == "" {
		return nil
	}

	s.items[pwquality.ItemOldAuthTok] = current
	return nil
}

func (s *Session) typeLabel() string {
	if label := s.items[pwquality.ItemAuthTokType]; label != "" {
		return label + " "
	}
	return ""
}

func (s *Session) readPassword(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)

	if s.fd >= 0 && term.IsTerminal(s.fd) {
		raw, err := term.ReadPassword(s.fd)
		// echo suppression eats the user's newline
		fmt.Fprintln(s.out)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	return s.readLine()
}

func (s *Session) readLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line, nil
}
