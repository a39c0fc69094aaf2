package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/chime/client"
	"github.com/ayoisaiah/chime/daemon"
	"github.com/ayoisaiah/chime/internal/config"
	"github.com/ayoisaiah/chime/internal/logger"
	"github.com/ayoisaiah/chime/internal/osutil"
	"github.com/ayoisaiah/chime/internal/pathutil"
	"github.com/ayoisaiah/chime/internal/secret"
	"github.com/ayoisaiah/chime/internal/server"
	"github.com/ayoisaiah/chime/internal/ui"
	"github.com/ayoisaiah/chime/notify"
	"github.com/ayoisaiah/chime/store"
)

const (
	envNoColor      = "NO_COLOR"
	envChimeNoColor = "CHIME_NO_COLOR"

	secretFileName = "rpc-secret"
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	if err := pathutil.Initialize(); err != nil {
		return nil, err
	}

	return config.New(
		config.WithViperConfig(pathutil.ConfigFilePath()),
		config.WithCLIConfig(ctx),
	)
}

func secretStore() *secret.Store {
	return secret.New(filepath.Join(pathutil.DataDir(), secretFileName))
}

func documentPath(cfg *config.Config) string {
	return firstNonEmptyString(
		cfg.Store.Path,
		pathutil.DocumentPath(cfg.Store.Driver),
	)
}

// newClient returns a client for the daemon named by the configuration.
func newClient(ctx *cli.Context) (*client.Client, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	token, err := secretStore().Lookup(cfg.Server.Secret)
	if err != nil {
		return nil, err
	}

	return client.NewHTTP(cfg.Server.Address, token), nil
}

// buildSink assembles the notification sinks enabled in cfg. The RPC
// broadcaster always comes first.
func buildSink(
	cfg *config.Config,
	b *notify.Broadcaster,
	l *slog.Logger,
) (notify.Sink, error) {
	sinks := notify.Fanout{b, notify.Log{Logger: l}}

	if cfg.Notifications.Desktop {
		sinks = append(sinks, notify.Desktop{Log: l})
	}

	if cfg.Notifications.Sound != "" {
		s, err := notify.NewSound(cfg.Notifications.Sound, l)
		if err != nil {
			return nil, err
		}

		sinks = append(sinks, s)
	}

	if cfg.Notifications.Cmd != "" {
		c, err := notify.NewCommand(cfg.Notifications.Cmd, l)
		if err != nil {
			return nil, err
		}

		if c != nil {
			sinks = append(sinks, c)
		}
	}

	return sinks, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(ctx *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
}

// daemonAction handles the daemon command. It runs the countdown, the
// scheduler and the RPC server until interrupted.
func daemonAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	l, logFile, err := logger.New(logger.Options{
		Path:  pathutil.LogFilePath(),
		Level: cfg.Log.Level,
		Debug: cfg.Log.Debug,
	})
	if err != nil {
		return err
	}

	defer logFile.Close()

	doc, err := store.Open(cfg.Store.Driver, documentPath(cfg))
	if err != nil {
		return err
	}

	defer func() {
		if err := doc.Close(); err != nil {
			l.Error("unable to close settings", slog.Any("error", err))
		}
	}()

	token, err := secretStore().Resolve(cfg.Server.Secret)
	if err != nil {
		return err
	}

	b := notify.NewBroadcaster(l)

	sink, err := buildSink(cfg, b, l)
	if err != nil {
		return err
	}

	sigCtx, stop := signalContext(ctx)
	defer stop()

	d := daemon.New(cfg, doc, sink, clockwork.NewRealClock(), l)
	d.Start(sigCtx)

	defer d.Shutdown()

	srv := server.New(d, b, token, l)

	pterm.Info.Printfln("chime is listening on %s", cfg.Server.Address)

	err = srv.ListenAndServe(sigCtx, cfg.Server.Address)
	if err != nil {
		return err
	}

	pterm.Info.Println("chime has been stopped")

	return nil
}

// importAction handles the import command which copies the keys of a
// settings.json file into the configured settings document.
func importAction(ctx *cli.Context) error {
	src := ctx.Args().First()
	if src == "" {
		return errMissingArg.Fmt("<settings.json>")
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	doc, err := store.Open(cfg.Store.Driver, documentPath(cfg))
	if err != nil {
		return err
	}

	defer doc.Close()

	if err := doc.Read(); err != nil {
		return err
	}

	n, err := doc.Import(
		store.NewJSONFile(afero.NewOsFs(), src),
		ctx.Bool("overwrite"),
	)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("imported %d setting(s) from %s", n, src)

	return nil
}

// resetSecretAction handles the reset-secret command.
func resetSecretAction(ctx *cli.Context) error {
	if _, err := loadConfig(ctx); err != nil {
		return err
	}

	if err := secretStore().Reset(); err != nil {
		return err
	}

	pterm.Success.Println("RPC secret removed: restart the daemon to generate a new one")

	return nil
}

// editConfigAction handles the edit-config command which opens the chime
// config file in the user's default text editor.
func editConfigAction(ctx *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == osutil.Windows {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	if _, err := loadConfig(ctx); err != nil {
		return err
	}

	cmd := exec.Command(editor, pathutil.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	// Override the default version printer
	oldVersionPrinter := cli.VersionPrinter
	cli.VersionPrinter = func(c *cli.Context) {
		oldVersionPrinter(c)
		fmt.Printf(
			"https://github.com/ayoisaiah/chime/releases/%s\n",
			c.App.Version,
		)
	}

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if CHIME_NO_COLOR is set
	if _, exists := os.LookupEnv(envChimeNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	ui.DarkTheme = ctx.Bool("dark-theme")

	return nil
}
