package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/meteorites/internal/audio"
	"github.com/tomz197/meteorites/internal/audio/sound"
	"github.com/tomz197/meteorites/internal/config"
	"github.com/tomz197/meteorites/internal/store"
	"github.com/tomz197/meteorites/internal/terminal"
)

const (
	defaultSavePath = "meteorites.save"
	masterVolume    = 0.5
)

func main() {
	logOut, closeLog, err := config.OpenLogFile(config.GetEnv("METEORITES_LOG", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	logger := config.NewLogger(logOut, "meteorites")

	if err := run(logger); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run(logger *log.Logger) error {
	savePath := config.GetEnv("METEORITES_SAVE", defaultSavePath)
	fadeRate := config.GetEnvFloat("METEORITES_FADE_RATE", 0)
	logger.Info("starting", "save", savePath, "fade_rate", fadeRate)

	player := newAudio(logger, config.GetEnvBool("METEORITES_AUDIO", true))
	if sm, ok := player.(*sound.SoundManager); ok {
		defer sm.Cleanup()
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := terminal.NewClient(bufio.NewReader(os.Stdin), os.Stdout, terminal.ClientOptions{
		Store:    store.NewFile(savePath),
		Audio:    player,
		Logger:   logger,
		FadeRate: fadeRate,
	})
	if err != nil {
		return err
	}
	return c.Run(ctx)
}

// newAudio opens the speaker, falling back to silence when there is no device.
func newAudio(logger *log.Logger, enabled bool) audio.Player {
	if !enabled {
		return audio.Nop{}
	}
	sm := sound.NewSoundManager(masterVolume)
	if err := sm.Initialize(); err != nil {
		logger.Warn("audio disabled", "err", err)
		return audio.Nop{}
	}
	return sm
}
