package main

import (
	"PriceTracker/frontend"
	"PriceTracker/internal/app"
	"PriceTracker/internal/browser"
	"PriceTracker/internal/history"
	"PriceTracker/internal/scraper/amazon"
	"PriceTracker/internal/server"
	"PriceTracker/internal/ui"
	"PriceTracker/pkg/config"
	"errors"
	"flag"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "config.yml", "Path to the YAML config file")
	flag.Parse()

	// .env is optional; config.yml may reference its variables as ${VAR}.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Could not load .env: %v", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	repo, err := history.Open(cfg.History.Path)
	if err != nil {
		log.Fatalf("Failed to open price history: %v", err)
	}
	log.Printf("Price history: %s", repo.Path())

	session := browser.New(browser.Options{
		Bin:          cfg.Scraper.BrowserBin,
		WindowWidth:  cfg.Scraper.WindowWidth,
		WindowHeight: cfg.Scraper.WindowHeight,
	})
	amazonScraper := amazon.New(session, cfg.Amazon)

	gui := ui.New(cfg, session)
	tracker := app.New(cfg, amazonScraper, amazonScraper, repo, gui)
	gui.Attach(tracker)

	err = wails.Run(&options.App{
		Title:     cfg.Window.Title,
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		MinWidth:  560,
		MinHeight: 480,
		AssetServer: &assetserver.Options{
			Assets:  frontend.Assets(),
			Handler: server.NewHandler(repo),
		},
		BackgroundColour: &options.RGBA{R: 244, G: 245, B: 247, A: 255},
		OnStartup:        gui.Startup,
		OnDomReady:       gui.DomReady,
		OnShutdown:       gui.Shutdown,
		Windows: &windows.Options{
			WebviewIsTransparent: false,
		},
		Mac: &mac.Options{
			WebviewIsTransparent: false,
		},
		Linux: &linux.Options{
			WebviewGpuPolicy: linux.WebviewGpuPolicyNever,
		},
		Bind: []interface{}{
			gui,
		},
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}
