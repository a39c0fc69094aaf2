package notify

import (
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"github.com/kballard/go-shellquote"
)

// Command runs a user-supplied command whenever a timer event fires. The
// message and subtle flag are passed in CHIME_MESSAGE and CHIME_SUBTLE.
type Command struct {
	Log  *slog.Logger
	name string
	args []string
}

// NewCommand parses cmdLine with shell quoting rules. An empty command line
// yields a nil sink.
func NewCommand(cmdLine string, l *slog.Logger) (*Command, error) {
	if cmdLine == "" {
		return nil, nil
	}

	cmdSlice, err := shellquote.Split(cmdLine)
	if err != nil {
		return nil, errParseCmd.Wrap(err)
	}

	if len(cmdSlice) == 0 {
		return nil, nil
	}

	return &Command{
		Log:  l,
		name: cmdSlice[0],
		args: cmdSlice[1:],
	}, nil
}

// Cmd builds the command for a timer event.
func (c *Command) Cmd(msg string, subtle bool) *exec.Cmd {
	cmd := exec.Command(c.name, c.args...)
	cmd.Env = append(
		os.Environ(),
		"CHIME_MESSAGE="+msg,
		"CHIME_SUBTLE="+strconv.FormatBool(subtle),
	)

	return cmd
}

func (c *Command) Emit(event string, args ...any) {
	msg, subtle, ok := TimerEvent(event, args)
	if !ok {
		return
	}

	cmd := c.Cmd(msg, subtle)

	go func() {
		if err := cmd.Run(); err != nil && c.Log != nil {
			c.Log.Warn(
				"notification command failed",
				slog.String("cmd", c.name),
				slog.Any("error", err),
			)
		}
	}()
}
