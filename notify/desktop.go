package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

const desktopTitle = "chime"

var (
	beeepNotify = beeep.Notify
	beeepAlert  = beeep.Alert
)

// Desktop shows timer events as system notifications. Subtle events use a
// plain notification, other events an alert with the system sound.
type Desktop struct {
	Log  *slog.Logger
	Icon string
}

func (d Desktop) Emit(event string, args ...any) {
	msg, subtle, ok := TimerEvent(event, args)
	if !ok {
		return
	}

	show := beeepAlert
	if subtle {
		show = beeepNotify
	}

	go func() {
		if err := show(desktopTitle, msg, d.Icon); err != nil && d.Log != nil {
			d.Log.Warn("unable to display notification", slog.Any("error", err))
		}
	}()
}
