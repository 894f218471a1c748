package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/xstream/tunbridge/internal/config"
)

type RunCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	engineConfig string
	fd           int32
	tunName      string
}

// NewRunCommand returns the run command.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *RunCommand {
	c := &RunCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("run", "Start a tunnel and keep it running until interrupted.")
	c.Cmd.Flag("engine-config", "Path of the engine configuration document.").StringVar(&c.engineConfig)
	c.Cmd.Flag("fd", "Already open interface descriptor to hand to the engine.").Int32Var(&c.fd)
	c.Cmd.Flag("tun-name", "TUN device to create and hand to the engine.").StringVar(&c.tunName)

	return c
}

func (c RunCommand) Name() string { return c.Cmd.FullCommand() }

func (c RunCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger
	tunnel := c.rootCmd.Settings.Tunnel

	enginePath := c.engineConfig
	if enginePath == "" {
		enginePath = tunnel.EngineConfig
	}
	if enginePath == "" {
		return errors.New("an engine configuration is required (--engine-config or tunnel.engine_config)")
	}
	doc, err := config.ReadEngineConfigFile(enginePath)
	if err != nil {
		return err
	}

	// Descriptor source: --fd, then --tun-name, then the settings file.
	fd, device := c.fd, c.tunName
	if fd == 0 && device == "" {
		fd, device = tunnel.FD, tunnel.Device
	}
	if fd < 0 {
		return fmt.Errorf("invalid descriptor %d", fd)
	}

	if fd == 0 {
		dev, err := openTUN(device)
		if err != nil {
			return fmt.Errorf("could not open TUN device: %w", err)
		}
		defer func() {
			if err := dev.Close(); err != nil {
				logger.Warn(ctx, "could not close TUN device", "device", dev.Name(), "error", err.Error())
			}
		}()
		fd = dev.FD()
		logger.Info(ctx, "TUN device opened", "device", dev.Name(), "fd", fd)
	} else if err := checkFD(fd); err != nil {
		return fmt.Errorf("descriptor %d is not usable: %w", fd, err)
	}

	session, err := c.rootCmd.NewBridge().OpenSession(doc, fd)
	if err != nil {
		return fmt.Errorf("could not start tunnel: %w", err)
	}
	fmt.Fprintf(c.rootCmd.Stdout, "tunnel %s started (handle %s, fd %d)\n", session.ID(), session.Handle(), fd)

	<-ctx.Done()

	closeErr := session.Close()
	state, _ := session.State()
	stop, free := session.Results()
	fmt.Fprintf(c.rootCmd.Stdout, "tunnel %s %s after %s: stop=%q free=%q\n",
		session.ID(), state, session.ClosedAt().Sub(session.StartedAt()).Round(time.Millisecond), stop, free)
	if closeErr != nil {
		return fmt.Errorf("could not tear down tunnel: %w", closeErr)
	}
	return nil
}

// device is an open interface whose descriptor is lent to the engine.
type device interface {
	Name() string
	FD() int32
	Close() error
}
