package main

import (
	"flag"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/brettbedarf/vfs/config"
	"github.com/brettbedarf/vfs/internal/util"
	"github.com/brettbedarf/vfs/requests"
	"github.com/brettbedarf/vfs/server"
)

func main() {
	// Parse command line arguments
	var (
		configPath string
		verbose    int
		nodesDef   string
		mnt        string
		umount     bool
		diff       bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config file (.yaml, .yml or .json)")
	flag.StringVar(&configPath, "c", "", "--config (shorthand)")
	flag.StringVar(&nodesDef, "nodes", "", "Path to nodes def file (.json, .yaml or .yml)")
	flag.StringVar(&nodesDef, "n", "", "--nodes (shorthand)")
	flag.StringVar(&mnt, "mount", "", "Mount the namespace read-only at this directory after running commands")
	flag.StringVar(&mnt, "m", "", "--mount (shorthand)")
	flag.BoolVar(&umount, "umount", false,
		"Unmount the mount point first if needed before mounting again. Useful for debuggers that don't exit properly.")
	flag.BoolVar(&umount, "u", false, "--umount (shorthand)")
	flag.BoolVar(&diff, "diff", false, "Print a tree diff after every mutating command")
	flag.IntVar(&verbose, "verbose", config.InfoVerbose, "Log verbosity level between 1 (error) and 5 (trace). Default is 3 (info).")
	flag.IntVar(&verbose, "v", config.InfoVerbose, "--verbose (shorthand)")
	flag.Parse()

	verboseSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "verbose" || f.Name == "v" {
			verboseSet = true
		}
	})

	// Load config before the logger so the file can set verbosity
	cfg := config.NewDefaultConfig()
	var cfgErr error
	if configPath != "" {
		cfg, cfgErr = config.NewConfigFromFile(configPath)
		if cfgErr != nil {
			cfg = config.NewDefaultConfig()
		}
	}
	if verboseSet || configPath == "" {
		cfg.LogLvl = config.VerboseToLogLevel(verbose)
	}

	// Initialize logger
	util.InitializeLogger(cfg.LogLvl)
	logger := util.GetLogger("main")
	if cfgErr != nil {
		logger.Fatal().Err(cfgErr).Str("config", configPath).Msg("Failed to load config file")
	}
	logger.Info().Int("verbose", verbose).Str("nodes", nodesDef).Str("mnt", mnt).Msg("VFS shell initializing")

	v := server.New(cfg)
	sh := newShell(v, cfg, os.Stdout, diff)

	// Load node definitions
	if nodesDef != "" {
		reqs, err := requests.LoadFile(nodesDef)
		if err != nil {
			logger.Fatal().Err(err).Str("nodes", nodesDef).Msg("Failed to read nodes file")
		}
		added, err := requests.Apply(v.FileSystem, reqs)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to apply node definitions")
		}
		logger.Info().Int("nodes", added).Msg("Added new nodes to namespace")
		// seeded nodes are not undoable
		sh.history.Clear()
	}

	// Commands come from the arguments, or stdin when there are none
	var failed int
	if flag.NArg() > 0 {
		for _, line := range flag.Args() {
			if err := sh.exec(line); err != nil {
				sh.printer.Error(err)
				failed++
			}
		}
	} else if mnt == "" {
		n, err := sh.runLines(os.Stdin)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read commands")
		}
		failed = n
	}
	logger.Debug().Int("failed", failed).Str("stats", v.String()).Msg("Commands finished")

	if mnt == "" {
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	// Try unmount if requested
	if umount {
		cmd := exec.Command("fusermount", "-u", mnt)
		// we ignore error here if not already mounted
		cmd.Run() // nolint:errcheck
	}

	// Serve
	if err := v.Serve(mnt); err != nil {
		logger.Fatal().Err(err).Msg("Failed to mount namespace")
	}

	// Setup signal handling for graceful shutdown
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	logger.Info().Str("mountpoint", mnt).Str("stats", v.String()).Msg("Namespace mounted successfully")

	// Wait for termination signal
	sig := <-signalChan
	logger.Info().Str("signal", sig.String()).Msg("Received signal, unmounting namespace")

	// Unmount the namespace
	if err := v.Unmount(); err != nil {
		logger.Error().Err(err).Msg("Failed to unmount namespace")
	} else {
		logger.Info().Msg("Namespace unmounted successfully")
	}
}
