// Package cli implements the docker-init command surface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cablehead/docker-init/internal/config"
	"github.com/cablehead/docker-init/internal/constants"
	"github.com/cablehead/docker-init/internal/domain"
	"github.com/cablehead/docker-init/internal/supervisor"
)

// Version is set during build
var Version = "dev"

// Flags
var (
	configPath  string
	envFile     string
	gracePeriod time.Duration
	noKillAll   bool
	quiet       bool
	verbose     bool
)

// exitCode holds the supervisor's exit code for Execute to return.
var exitCode int

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "docker-init [flags] -- MAIN_COMMAND [ARGS...]",
	Short: "A minimal init process for containers",
	Long: `docker-init runs as PID 1 of a container, launches one main command,
reaps every terminated child including adopted orphans, forwards
termination requests with a bounded grace period before escalating to
SIGKILL, and terminates every remaining process in the namespace before
exiting (disable with --no-kill-all-on-exit).

It exits with the main command's own exit code, 1 if the command
terminated without a decodable status, or 2 if the run was ended by a
termination request.`,
	Version:       Version,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInit,
}

func init() {
	// Flag parsing stops at the first positional argument so the main
	// command's own flags pass through untouched.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default "+constants.DefaultConfigPath+" if present)")
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "Extra environment for the main command, dotenv format")
	rootCmd.Flags().DurationVar(&gracePeriod, "grace-period", constants.DefaultGracePeriod, "Time a process gets to exit before SIGKILL")
	rootCmd.Flags().BoolVar(&noKillAll, "no-kill-all-on-exit", false, "Do not terminate remaining processes on exit")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Log warnings and errors only")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.SetVersionTemplate("docker-init version {{.Version}}\n")
}

// Execute runs the root command and returns the process exit code.
func Execute(args []string) int {
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, domain.ErrInterrupted) {
			// Already logged by the supervisor.
			return constants.ExitCodeInterrupted
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return constants.ExitCodeFailure
	}
	return exitCode
}

func runInit(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}

	log := newLogger(opts)

	env, err := config.CommandEnv(opts.cfg, envFile)
	if err != nil {
		return err
	}

	spec := domain.CommandSpec{
		Path: args[0],
		Args: args[1:],
		Env:  env,
	}

	sup := supervisor.New(supervisor.Config{
		KillAllOnExit: opts.killAllOnExit,
		GracePeriod:   opts.gracePeriod,
	}, nil, nil, log)

	code, err := sup.Run(spec)
	exitCode = code
	return err
}
