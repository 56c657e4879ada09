package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tomz197/meteorites/internal/audio"
	"github.com/tomz197/meteorites/internal/audio/sound"
	"github.com/tomz197/meteorites/internal/config"
	"github.com/tomz197/meteorites/internal/loop"
	loopconfig "github.com/tomz197/meteorites/internal/loop/config"
	"github.com/tomz197/meteorites/internal/store"
	"github.com/tomz197/meteorites/internal/window"
)

const (
	defaultSavePath = "meteorites.save"
	masterVolume    = 0.5
)

func main() {
	logger := config.NewLogger(os.Stderr, "window")

	savePath := config.GetEnv("METEORITES_SAVE", defaultSavePath)
	fadeRate := config.GetEnvFloat("METEORITES_FADE_RATE", 0)
	logger.Info("starting", "save", savePath, "fade_rate", fadeRate)

	var player audio.Player = audio.Nop{}
	if config.GetEnvBool("METEORITES_AUDIO", true) {
		sm := sound.NewSoundManager(masterVolume)
		if err := sm.Initialize(); err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer sm.Cleanup()
			player = sm
		}
	}

	sess, err := loop.NewSession(loop.Options{
		Store:    store.NewFile(savePath),
		Audio:    player,
		Logger:   logger,
		FadeRate: fadeRate,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(loopconfig.ScreenWidth, loopconfig.ScreenHeight)
	ebiten.SetWindowTitle("Meteorites")
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(loopconfig.TargetFPS)

	if err := ebiten.RunGame(window.NewGame(sess, logger)); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
