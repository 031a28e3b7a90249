package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ravin/steadyhead/internal/app"
	"github.com/ravin/steadyhead/internal/config"
	"github.com/ravin/steadyhead/internal/detect"
	"github.com/ravin/steadyhead/internal/server"
	"github.com/ravin/steadyhead/internal/store"
	"github.com/ravin/steadyhead/internal/tray"
)

func main() {
	videoPath := flag.String("video", "", "analyze this video and exit")
	outPath := flag.String("out", "", "write the annotated video here (with -video)")
	headFlag := flag.String("head", "", "initial head position as x,y (with -video)")
	shoulderFlag := flag.String("shoulder", "", "shoulder reference point as x,y (with -video)")
	hipFlag := flag.String("hip", "", "hip reference point as x,y (with -video)")
	radius := flag.Int("radius", 50, "tolerance circle radius in pixels (with -video)")
	addrFlag := flag.String("addr", "", "server listen address (overrides STEADYHEAD_ADDR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *addrFlag != "" {
		cfg.Addr = *addrFlag
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}

		dbDir := filepath.Join(homeDir, ".steadyhead")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dbDir, "steadyhead.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(app.Config{
		Store:      st,
		GateRadius: cfg.GateRadius,
		Workers:    cfg.Workers,
	})

	if *videoPath != "" {
		analyzeOnce(a, *videoPath, *outPath, *headFlag, *shoulderFlag, *hipFlag, *radius)
		return
	}

	serve(cfg, st, a)
}

// analyzeOnce runs a single analysis from the command line and prints
// the summary.
func analyzeOnce(a *app.App, videoPath, outPath, headFlag, shoulderFlag, hipFlag string, radius int) {
	head, err := parsePoint(headFlag)
	if err != nil {
		log.Fatalf("Invalid -head: %v", err)
	}
	shoulder, err := parsePoint(shoulderFlag)
	if err != nil {
		log.Fatalf("Invalid -shoulder: %v", err)
	}
	hip, err := parsePoint(hipFlag)
	if err != nil {
		log.Fatalf("Invalid -hip: %v", err)
	}

	run, err := a.Analyze(app.Request{
		VideoPath:  videoPath,
		OutputPath: outPath,
		Head:       head,
		Shoulder:   shoulder,
		Hip:        hip,
		Radius:     radius,
	})
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	fmt.Printf("Run %s\n", run.ID)
	fmt.Printf("  Frames:        %d\n", run.TotalFrames)
	fmt.Printf("  Outside:       %d (%.1f%%)\n", run.OutsideFrames, run.OutsidePercent)
	fmt.Printf("  Mean distance: %.1f px\n", run.MeanDistance)
	fmt.Printf("  Max distance:  %.1f px\n", run.MaxDistance)
	if run.OutputPath != "" {
		fmt.Printf("  Annotated:     %s\n", run.OutputPath)
	}
}

// serve runs the HTTP server, optionally alongside the system tray.
func serve(cfg *config.Config, st *store.Store, a *app.App) {
	webDir := cfg.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	fmt.Printf("Starting server on %s\n", cfg.Addr)

	if !cfg.TrayEnable {
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	go func() {
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t := tray.New()
	t.OnDashboard(func() {
		openBrowser("http://localhost" + cfg.Addr)
	})
	t.OnQuit(func() {
		log.Println("Shutting down")
	})
	t.Run()
}

// parsePoint parses "x,y" into a pixel coordinate.
func parsePoint(s string) (detect.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return detect.Point{}, fmt.Errorf("expected x,y but got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return detect.Point{}, fmt.Errorf("bad x coordinate %q", xs)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return detect.Point{}, fmt.Errorf("bad y coordinate %q", ys)
	}
	return detect.Point{X: x, Y: y}, nil
}

// openBrowser opens the given URL with the platform's default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch {
	case commandExists("open"):
		cmd = exec.Command("open", url)
	case commandExists("xdg-open"):
		cmd = exec.Command("xdg-open", url)
	default:
		log.Printf("Open %s in your browser", url)
		return
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.steadyhead/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".steadyhead", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
