package collector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Supported reports whether battery info can be read on this OS.
func Supported() bool {
	return platformSupported
}

// Source is the command that prints the ioreg tree.
type Source struct {
	Command string
	Args    []string
	// Timeout bounds one run of Command; zero means no limit.
	Timeout time.Duration
}

// DefaultSource runs ioreg restricted to the battery class without wrapping.
func DefaultSource() Source {
	return Source{
		Command: "ioreg",
		Args:    []string{"-c", BatteryObject, "-w0"},
		Timeout: 10 * time.Second,
	}
}

// Read runs the command and extracts battery info from its output.
func (s Source) Read(ctx context.Context, v Variant) (BatteryInfo, error) {
	if !platformSupported {
		return BatteryInfo{}, ErrUnsupportedPlatform
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, s.Command, s.Args...)
	if !v.Stream {
		return s.readAll(ctx, cmd, v)
	}
	return s.readStream(ctx, cmd, v)
}

func (s Source) readAll(ctx context.Context, cmd *exec.Cmd, v Variant) (BatteryInfo, error) {
	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return BatteryInfo{}, fmt.Errorf("run %s: %w", s.Command, ctxErr)
		}
		return BatteryInfo{}, fmt.Errorf("run %s: %w", s.Command, err)
	}
	return ExtractContext(ctx, bytes.NewReader(out), v)
}

func (s Source) readStream(ctx context.Context, cmd *exec.Cmd, v Variant) (BatteryInfo, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return BatteryInfo{}, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return BatteryInfo{}, fmt.Errorf("start %s: %w", s.Command, err)
	}

	info, parseErr := ExtractContext(ctx, stdout, v)
	if parseErr != nil {
		_ = cmd.Process.Kill()
		waitErr := cmd.Wait()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return BatteryInfo{}, fmt.Errorf("run %s: %w", s.Command, ctxErr)
		}
		// A non-zero exit outranks the parse error it caused.
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) && exitErr.Exited() && exitErr.ExitCode() != 0 {
			return BatteryInfo{}, fmt.Errorf("run %s: %w", s.Command, waitErr)
		}
		return BatteryInfo{}, parseErr
	}

	if err := cmd.Wait(); err != nil {
		return BatteryInfo{}, fmt.Errorf("run %s: %w", s.Command, err)
	}
	return info, nil
}
