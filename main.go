package main

import (
	"embed"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"github.com/shuntapp/shunt/config"
	"github.com/shuntapp/shunt/hotkey"
	"github.com/shuntapp/shunt/internal/app"
	"github.com/shuntapp/shunt/internal/types"
	"github.com/shuntapp/shunt/persist"
	"github.com/shuntapp/shunt/recognize"
	"github.com/shuntapp/shunt/screenshot"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	slog.Info("starting app", "version", version, "commit", commit, "date", date)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		cfg = config.Default()
	}

	dataDir, err := config.DataDir()
	if err != nil {
		slog.Error("data directory unavailable", "error", err)
		os.Exit(1)
	}

	store, err := persist.NewStore(dataDir)
	if err != nil {
		slog.Error("open save log", "error", err)
		os.Exit(1)
	}

	archive, err := persist.OpenArchive(filepath.Join(dataDir, "archive"))
	if err != nil {
		// History is a convenience; counting still works without it.
		slog.Warn("open shunt archive", "error", err)
		archive = nil
	}

	service, err := app.New(cfg, store, archive, recognize.NewScreenAdapter(cfg))
	if err != nil {
		slog.Error("init service", "error", err)
		os.Exit(1)
	}

	if !screenshot.HasPermission() {
		slog.Warn("screen recording permission missing, requesting")
		screenshot.RequestPermission()
	}

	wailsApp := application.New(application.Options{
		Name:        "Shunt",
		Description: "On-screen encounter counter",
		Services: []application.Service{
			application.NewService(service),
		},
		Assets: application.AssetOptions{
			Handler: application.BundledAssetFileServer(assets),
		},
		Mac: application.MacOptions{
			// Keep running from the tray when the window is closed
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
	})

	mainWindow := wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:  "Shunt",
		Width:  320,
		Height: 420,
		URL:    "/",
	})

	// Hide instead of destroy so the tray can reopen the window.
	mainWindow.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		e.Cancel()
		mainWindow.Hide()
	})

	service.Init(wailsApp, mainWindow)
	service.SetQuitHandler(wailsApp.Quit)

	hotkeys := hotkey.NewManager(func(cmd types.Command) {
		if err := service.SendCommand(cmd); err != nil {
			slog.Warn("hotkey command rejected", "command", cmd, "error", err)
		}
	})
	hotkeys.Start()
	defer hotkeys.Stop()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("unexpected crash, saving progress", "panic", r)
			service.CrashFlush()
			panic(r)
		}
	}()

	trayMenu := wailsApp.NewMenu()
	trayMenu.Add("Show Window").OnClick(func(ctx *application.Context) {
		mainWindow.Show()
		mainWindow.Focus()
	})
	trayMenu.AddSeparator()
	trayMenu.Add("Start (S)").OnClick(func(ctx *application.Context) {
		sendCommand(service, types.CmdStart)
	})
	trayMenu.Add("Pause (P)").OnClick(func(ctx *application.Context) {
		sendCommand(service, types.CmdPause)
	})
	trayMenu.Add("Reset (R)").OnClick(func(ctx *application.Context) {
		sendCommand(service, types.CmdReset)
	})
	trayMenu.AddSeparator()
	trayMenu.Add("Quit (Q)").
		SetAccelerator("CmdOrCtrl+Q").
		OnClick(func(ctx *application.Context) {
			sendCommand(service, types.CmdQuit)
		})

	systemTray := wailsApp.SystemTray.New()
	systemTray.SetMenu(trayMenu)

	service.Start()

	if err := wailsApp.Run(); err != nil {
		slog.Error("run app", "error", err)
	}
	service.Shutdown()
}

func sendCommand(service *app.Service, cmd types.Command) {
	if err := service.SendCommand(cmd); err != nil {
		slog.Warn("command rejected", "command", cmd, "error", err)
	}
}
