package execchecker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	pwquality "github.com/debarshiray/libpwquality"
)

const defaultTimeout = 10 * time.Second

// Provider allocates checkers that delegate quality judgment to an external
// helper program, pwscore style. One helper invocation runs per Check call.
//
// Provider instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise.
type Provider struct {
	// Program is the helper executable. Required.
	Program string
	// Args are fixed arguments placed before the generated ones.
	Args []string
	// Timeout bounds a single helper run. Zero means the default of ten
	// seconds; a negative value disables the bound.
	Timeout time.Duration
}

// NewProvider returns a provider running program with the given fixed
// arguments.
func NewProvider(program string, args ...string) *Provider {
	return &Provider{Program: program, Args: args, Timeout: defaultTimeout}
}

func (p *Provider) NewChecker() (pwquality.Checker, error) {
	if p == nil || p.Program == "" {
		return nil, errors.New("checker helper program is required")
	}

	timeout := p.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Checker{
		program: p.Program,
		args:    append([]string(nil), p.Args...),
		timeout: timeout,
	}, nil
}

// Checker shells out to the provider's helper program. It keeps the config
// path and option strings handed to it and forwards them on every run.
type Checker struct {
	program    string
	args       []string
	timeout    time.Duration
	configPath string
	options    []string
}

func (c *Checker) ReadConfig(path string) error {
	if path == "" {
		c.configPath = ""
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("checker config: %w", err)
	}
	c.configPath = path
	return nil
}

func (c *Checker) SetOption(option string) error {
	if option == "" {
		return errors.New("empty checker option")
	}
	c.options = append(c.options, option)
	return nil
}

func (c *Checker) Check(ctx context.Context, password, oldPassword string) (int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := append([]string(nil), c.args...)
	if c.configPath != "" {
		args = append(args, "--config", c.configPath)
	}
	for _, opt := range c.options {
		args = append(args, "--set", opt)
	}
	if user := pwquality.UserFromContext(ctx); user != "" {
		args = append(args, user)
	}

	cmd := exec.CommandContext(ctx, c.program, args...)

	// Tokens travel over stdin only, never through argv.
	var stdin bytes.Buffer
	stdin.WriteString(password)
	stdin.WriteByte('\n')
	stdin.WriteString(oldPassword)
	stdin.WriteByte('\n')
	cmd.Stdin = &stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return 0, &pwquality.QualityError{
				Code:   pwquality.CodeDictionaryCheck,
				Detail: firstLine(stderr.String()),
			}
		}
		return 0, fmt.Errorf("run quality helper: %w", err)
	}

	out := strings.TrimSpace(stdout.String())
	score, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("parse helper score %q: %w", out, err)
	}
	if score < 0 {
		return 0, fmt.Errorf("helper reported invalid score %d", score)
	}
	return score, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
