package cli

import (
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cablehead/docker-init/internal/config"
	"github.com/cablehead/docker-init/internal/constants"
	"github.com/cablehead/docker-init/internal/domain"
)

// options is the effective configuration after merging the config file and
// the command line. Flags explicitly set on the command line win.
type options struct {
	gracePeriod   time.Duration
	killAllOnExit bool
	quiet         bool
	verbose       bool

	cfg *config.Config
}

// buildOptions loads the optional config file and merges it with flags.
// An explicit --config that does not exist is an error; the probed default
// path is allowed to be absent.
func buildOptions(cmd *cobra.Command) (options, error) {
	opts := options{
		gracePeriod:   constants.DefaultGracePeriod,
		killAllOnExit: true,
	}

	path := configPath
	probed := false
	if path == "" {
		path = constants.DefaultConfigPath
		probed = true
	}

	cfg, err := config.Load(path)
	if err != nil {
		if !(probed && errors.Is(err, domain.ErrConfigNotFound)) {
			return options{}, err
		}
	}
	opts.cfg = cfg

	if cfg != nil {
		opts.gracePeriod = cfg.GracePeriodDuration(opts.gracePeriod)
		if cfg.KillAllOnExit != nil {
			opts.killAllOnExit = *cfg.KillAllOnExit
		}
		opts.quiet = cfg.Quiet
		opts.verbose = cfg.Verbose
	}

	if cmd.Flags().Changed("grace-period") {
		opts.gracePeriod = gracePeriod
	}
	if cmd.Flags().Changed("no-kill-all-on-exit") {
		opts.killAllOnExit = !noKillAll
	}
	if cmd.Flags().Changed("quiet") {
		opts.quiet = quiet
	}
	if cmd.Flags().Changed("verbose") {
		opts.verbose = verbose
	}

	return opts, nil
}

// newLogger builds the supervisor's logger. Quiet wins over verbose.
func newLogger(opts options) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	switch {
	case opts.quiet:
		log.SetLevel(logrus.WarnLevel)
	case opts.verbose:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}
