package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/tartampluch/go-holisync/internal/config"
	"github.com/tartampluch/go-holisync/internal/daemon"
	"github.com/tartampluch/go-holisync/internal/engine"
	"github.com/tartampluch/go-holisync/internal/server"
	"golang.org/x/term"
)

// logLevel is raised or lowered once the settings are known.
var logLevel slog.LevelVar

// options holds the command-line overrides.
type options struct {
	showVersion bool
	debug       bool
	serve       bool
	dryRun      bool
	country     string
	year        int
	storeToken  string
}

// main delegates to runMain so deferred calls run before os.Exit.
func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		return config.ExitCodeError
	}

	if opts.showVersion {
		printVersion(os.Stdout)
		return config.ExitCodeSuccess
	}

	if opts.storeToken != "" {
		if err := storeToken(opts.storeToken, os.Stdin, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return config.ExitCodeError
		}
		return config.ExitCodeSuccess
	}

	logCloser := setupLogging(opts.debug)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	settings, err := config.Load()
	if err == nil {
		opts.apply(&settings)
		err = settings.Validate()
	}
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	if !opts.debug {
		logLevel.Set(config.ParseLogLevel(settings.LogLevel))
	}

	if err := run(ctx, settings, opts.serve); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet(config.AppBinary, flag.ContinueOnError)
	fs.BoolVar(&opts.showVersion, config.FlagVersion, false, config.FlagDescVersion)
	fs.BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDebug)
	fs.BoolVar(&opts.serve, config.FlagServe, false, config.FlagDescServe)
	fs.BoolVar(&opts.dryRun, config.FlagDryRun, false, config.FlagDescDryRun)
	fs.StringVar(&opts.country, config.FlagCountry, "", config.FlagDescCountry)
	fs.IntVar(&opts.year, config.FlagYear, -1, config.FlagDescYear)
	fs.StringVar(&opts.storeToken, config.FlagStoreToken, "", config.FlagDescStoreToken)
	err := fs.Parse(args)
	return opts, err
}

// apply overlays explicitly set flags on the loaded settings.
func (o options) apply(s *config.Settings) {
	if o.country != "" {
		s.Country = strings.ToUpper(strings.TrimSpace(o.country))
	}
	if o.year >= 0 {
		s.Year = o.year
	}
	if o.dryRun {
		s.DryRun = true
	}
}

// run wires the clients and executes one sync, or keeps syncing and serving
// the preview calendar until the context is cancelled.
func run(ctx context.Context, settings config.Settings, serve bool) error {
	fetcher := engine.NewHTTPFetcher()

	holidays, err := newHolidayProvider(settings, fetcher)
	if err != nil {
		return err
	}

	playlists, err := engine.NewScreenlyClient(fetcher, settings.ScreenlyURL, settings.ScreenlyToken)
	if err != nil {
		return err
	}

	syncer := &engine.Syncer{
		Clock:     engine.RealClock{},
		Holidays:  holidays,
		Playlists: playlists,
	}

	if !serve {
		daemon.New(ctx, settings, syncer, nil).RunOnce()
		return nil
	}

	d := daemon.New(ctx, settings, syncer, server.NewCalendarServer(settings.Port))

	hup := make(chan os.Signal, config.ChannelBufferSize)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				d.Trigger()
			}
		}
	}()

	return d.Run()
}

func newHolidayProvider(settings config.Settings, fetcher *engine.HTTPFetcher) (engine.HolidayProvider, error) {
	switch settings.HolidaySource {
	case config.HolidaySourceOffline:
		return engine.NewOfflineProvider(), nil
	case config.HolidaySourceCalendarific:
		p, err := engine.NewCalendarificProvider(fetcher, settings.CalendarificURL, settings.CalendarificToken)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrUnknownSource, settings.HolidaySource)
	}
}

// storeToken reads a secret from the terminal without echo, or from a pipe,
// and saves it in the OS keyring.
func storeToken(name string, in *os.File, out io.Writer) error {
	fmt.Fprintf(out, config.MsgTokenPrompt, name)

	var token string
	if fd := int(in.Fd()); term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrTokenRead, err)
		}
		token = string(raw)
	} else {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: %w", config.ErrTokenRead, err)
		}
		token = line
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New(config.ErrTokenRead)
	}
	if err := config.StoreSecret(name, token); err != nil {
		return err
	}

	fmt.Fprintf(out, config.MsgTokenStored, name)
	return nil
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger to write JSON to stdout
// and to a log file in the user's cache directory.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stdout}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	if debugMode {
		logLevel.Set(slog.LevelDebug)
	}

	opts := &slog.HandlerOptions{
		Level:     &logLevel,
		AddSource: debugMode,
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
