// Command fat9pd runs a fat9p server against a host directory tree, for
// development and testing without real SD card hardware: it backs the
// export with internal/blockdev/localdev rather than a FAT32 driver.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oschettler/load81-picocalc/fat9p"
	"github.com/oschettler/load81-picocalc/fat9p/internal/blockdev/localdev"
)

var (
	port             uint16
	maxClients       int
	maxMsize         uint32
	maxFidsPerClient int
	lockTimeoutMs    int
	verbose          bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fat9pd <root-dir>",
	Short: "Serve a directory tree as a 9P2000.u filesystem",
	Args:  cobra.ExactArgs(1),
	RunE:  runServe,
}

func init() {
	flags := rootCmd.Flags()
	flags.Uint16Var(&port, "port", fat9p.DefaultPort, "TCP port to listen on")
	flags.IntVar(&maxClients, "max-clients", fat9p.DefaultMaxClients, "maximum simultaneous sessions")
	flags.Uint32Var(&maxMsize, "max-msize", fat9p.DefaultMaxMsize, "maximum negotiable message size")
	flags.IntVar(&maxFidsPerClient, "max-fids-per-client", fat9p.DefaultMaxFidsPerClient, "maximum fids per session")
	flags.IntVar(&lockTimeoutMs, "fs-lock-timeout-ms", int(fat9p.DefaultFSLockTimeout/time.Millisecond), "block-device lock acquisition timeout, in milliseconds")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	dev, err := localdev.New(args[0])
	if err != nil {
		return fmt.Errorf("fat9pd: %w", err)
	}

	cfg := fat9p.Config{
		Port:             port,
		MaxClients:       maxClients,
		MaxMsize:         maxMsize,
		MaxFidsPerClient: maxFidsPerClient,
		FSLockTimeout:    time.Duration(lockTimeoutMs) * time.Millisecond,
		Logger:           log,
	}

	srv := fat9p.NewServer(dev, cfg)
	if err := srv.Start(); err != nil {
		return err
	}
	log.Infof("fat9pd: serving %s on port %d", args[0], cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Infof("fat9pd: shutting down")
	return srv.Stop()
}
