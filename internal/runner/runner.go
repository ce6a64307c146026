// Package runner executes the underlying single-turn CLI text generator.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clibridge/clibridge/internal/bridge"
	"github.com/clibridge/clibridge/internal/config"
	"github.com/clibridge/clibridge/internal/metrics"
	"github.com/clibridge/clibridge/internal/observability"
)

// SessionResolver maps a caller ID to a CLI session ID for conversation
// continuity.
type SessionResolver interface {
	SessionFor(ctx context.Context, callerID string) (string, error)
}

// Runner shells out to the configured CLI binary with a flattened prompt on
// stdin.
type Runner struct {
	cfg      config.CLIConfig
	sessions SessionResolver
}

// New builds a Runner. sessions may be nil when session tracking is
// disabled.
func New(cfg config.CLIConfig, sessions SessionResolver) *Runner {
	return &Runner{cfg: cfg, sessions: sessions}
}

// Result captures one completed CLI invocation.
type Result struct {
	Text      string
	Model     bridge.ModelAlias
	SessionID string
	Duration  time.Duration
}

// Generate runs the CLI tool once with the converted input and returns its
// stdout. The prompt is fed on stdin so shell quoting never touches it.
func (r *Runner) Generate(ctx context.Context, input bridge.CLIInput) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	sessionID, err := r.resolveSession(ctx, input.SessionID)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	args := r.buildArgs(input.Model, sessionID)

	cmd := exec.CommandContext(ctx, r.cfg.Binary, args...)
	cmd.Stdin = strings.NewReader(input.Prompt)
	if r.cfg.WorkDir != "" {
		cmd.Dir = r.cfg.WorkDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	metrics.RecordCLIRun(string(input.Model), runErr == nil, duration)

	if observability.ServerLogger != nil {
		observability.ServerLogger.Debug("CLI run finished",
			zap.String("binary", r.cfg.Binary),
			zap.String("model", string(input.Model)),
			zap.Duration("duration", duration),
			zap.Bool("success", runErr == nil),
		)
	}

	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("cli run timed out after %s: %w", duration.Round(time.Millisecond), ctxErr)
		}
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("cli run failed: %w: %s", runErr, detail)
		}
		return nil, fmt.Errorf("cli run failed: %w", runErr)
	}

	return &Result{
		Text:      strings.TrimSpace(stdout.String()),
		Model:     input.Model,
		SessionID: sessionID,
		Duration:  duration,
	}, nil
}

func (r *Runner) resolveSession(ctx context.Context, callerID string) (string, error) {
	if callerID == "" || r.sessions == nil {
		return "", nil
	}
	return r.sessions.SessionFor(ctx, callerID)
}

// buildArgs assembles the CLI argument list: print mode, model alias, an
// optional session resume, then any extra configured args.
func (r *Runner) buildArgs(model bridge.ModelAlias, sessionID string) []string {
	args := []string{"--print", "--model", string(model)}
	if sessionID != "" {
		args = append(args, "--resume", sessionID)
	}
	args = append(args, r.cfg.Args...)
	return args
}

// EstimateTokens approximates token usage as one token per four bytes,
// rounded up. Good enough for the usage block OpenAI clients expect.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
