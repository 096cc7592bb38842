package conduit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	diffstackerrors "diffstack.dev/diffstack/internal/errors"
)

// DefaultArcTimeout bounds a single arcanist invocation.
const DefaultArcTimeout = 10 * time.Minute

var createdRevisionPattern = regexp.MustCompile(`D([1-9][0-9]*)`)

// arcRunner drives the arcanist CLI for diff transport: uploading diffs and
// applying patches are delegated to arc rather than reimplemented over raw
// Conduit diff endpoints.
type arcRunner struct {
	workingDir string
	verbose    bool
}

// run executes arc and returns combined output. With verbose set, output is
// also streamed to the terminal.
func (a *arcRunner) run(ctx context.Context, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultArcTimeout)
		defer cancel()
	}

	log.Debug().Strs("args", args).Msg("arc")

	cmd := exec.CommandContext(ctx, "arc", args...)
	if a.workingDir != "" {
		cmd.Dir = a.workingDir
	}

	var buf bytes.Buffer
	if a.verbose {
		// Keep a copy for revision-id parsing.
		cmd.Stdout = io.MultiWriter(os.Stderr, &buf)
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	}

	if err := cmd.Run(); err != nil {
		return "", diffstackerrors.NewGitCommandError("arc", args, buf.String(), "", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// runInteractive executes arc with the terminal attached, for commands that
// may prompt (patch).
func (a *arcRunner) runInteractive(ctx context.Context, args ...string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log.Debug().Strs("args", args).Msg("arc (interactive)")

	cmd := exec.CommandContext(ctx, "arc", args...)
	if a.workingDir != "" {
		cmd.Dir = a.workingDir
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return diffstackerrors.NewGitCommandError("arc", args, "", "", err)
	}
	return nil
}

// submitDiff runs arc diff for the given options and returns the revision
// identifier the submission landed on.
func (a *arcRunner) submitDiff(ctx context.Context, opts SubmitDiffOptions) (int, error) {
	args := []string{"diff", "--allow-untracked"}

	if opts.UpdateRevision != 0 {
		args = append(args, "--update", FormatRevisionID(opts.UpdateRevision))
	} else {
		args = append(args, "--create")
	}

	if opts.Message != "" {
		messageFile, err := writeMessageFile(opts.Message)
		if err != nil {
			return 0, err
		}
		defer os.Remove(messageFile)
		args = append(args, "--message-file", messageFile)
	}

	if opts.HeadRevision != "" {
		args = append(args, "--head", opts.HeadRevision)
	}
	if opts.BaseRevision != "" {
		args = append(args, opts.BaseRevision)
	}

	out, err := a.run(ctx, args...)
	if err != nil {
		return 0, diffstackerrors.NewRemoteCallError("arc diff", err)
	}

	if opts.UpdateRevision != 0 {
		return opts.UpdateRevision, nil
	}

	// arc prints the revision URI on success; recover the identifier from it.
	m := createdRevisionPattern.FindStringSubmatch(out)
	if m == nil {
		return 0, diffstackerrors.NewRemoteCallError("arc diff",
			fmt.Errorf("could not determine created revision from output:\n%s", out))
	}
	id, err := ParseRevisionID("D" + m[1])
	if err != nil {
		return 0, diffstackerrors.NewRemoteCallError("arc diff", err)
	}
	return id, nil
}

// applyPatch runs arc patch for the given revision.
func (a *arcRunner) applyPatch(ctx context.Context, id int) error {
	if err := a.runInteractive(ctx, "patch", FormatRevisionID(id)); err != nil {
		return diffstackerrors.NewRemoteCallError("arc patch", err)
	}
	return nil
}

func writeMessageFile(message string) (string, error) {
	tmp, err := os.CreateTemp("", "diffstack-message-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create message file: %w", err)
	}
	if _, err := tmp.WriteString(message); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write message file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close message file: %w", err)
	}
	return tmp.Name(), nil
}
