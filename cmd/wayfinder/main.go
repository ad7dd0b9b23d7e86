// Command wayfinder runs the navigation core: it wires the actuator link,
// voice queue, map store, and session manager, then accepts session
// commands on stdin while pose frames stream in from the tracker (or from
// a fixture file in dev mode).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/banshee-data/wayfinder/internal/actuator"
	"github.com/banshee-data/wayfinder/internal/config"
	"github.com/banshee-data/wayfinder/internal/journal"
	"github.com/banshee-data/wayfinder/internal/mapstore"
	"github.com/banshee-data/wayfinder/internal/serialmux"
	"github.com/banshee-data/wayfinder/internal/session"
	"github.com/banshee-data/wayfinder/internal/version"
	"github.com/banshee-data/wayfinder/internal/voice"
)

var (
	devMode    = flag.Bool("dev", false, "Run in dev mode with a mock actuator link")
	serialPort = flag.String("serial", "/dev/ttyUSB0", "Actuator serial port path")
	mapsDir    = flag.String("maps", "maps", "Directory holding saved map bundles")
	dbFile     = flag.String("db", "wayfinder.db", "Session journal database path")
	migrations = flag.String("migrations", "", "Journal migrations directory; applied at startup when set")
	configPath = flag.String("config", "", "Optional tuning config JSON")
	fixtures   = flag.String("fixtures", "", "Pose fixture file to replay in dev mode")
	metricsOn  = flag.String("metrics-addr", "", "Listen address for prometheus metrics; disabled when empty")
	showVer    = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println(version.String())
		return
	}

	tuning := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}

	var mux serialmux.SerialMuxInterface
	if *devMode {
		mux, _ = serialmux.NewMockSerialMux()
	} else {
		var err error
		mux, err = serialmux.NewRealSerialMux(*serialPort, serialmux.DefaultPortMode())
		if err != nil {
			log.Fatalf("failed to open actuator port: %v", err)
		}
	}
	defer mux.Close()

	jr, err := journal.Open(*dbFile)
	if err != nil {
		log.Fatalf("failed to open session journal: %v", err)
	}
	defer jr.Close()

	if *migrations != "" {
		if err := jr.MigrateUp(*migrations); err != nil {
			log.Fatalf("failed to migrate session journal: %v", err)
		}
	}

	mgr := session.NewManager(session.Deps{
		Tuning:  tuning,
		Store:   mapstore.NewStore(*mapsDir),
		Journal: jr,
		Speaker: voice.NewQueue(voice.LogSynthesizer{}),
		Pointer: actuator.NewPointer(mux),
	})

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *metricsOn != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsOn, nil); err != nil {
				log.Printf("metrics server exited: %v", err)
			}
		}()
	}

	// Manage IO on the actuator link.
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := mux.Monitor(ctx); err != nil && err != context.Canceled {
			log.Printf("actuator link monitor exited: %v", err)
		}
	}()

	// The session's single serial execution context.
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := mgr.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("session loop exited: %v", err)
		}
	}()

	if *devMode && *fixtures != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := replayFixtures(ctx, mgr, *fixtures); err != nil {
				log.Printf("fixture replay exited: %v", err)
			}
		}()
	}

	// Session commands from the surrounding application, here via stdin.
	wg.Add(1)
	go func() {
		defer wg.Done()
		commandLoop(ctx, stop, mgr)
	}()

	<-ctx.Done()
	wg.Wait()
}

// commandLoop reads session commands until the context ends or stdin closes.
func commandLoop(ctx context.Context, stop func(), mgr *session.Manager) {
	scan := bufio.NewScanner(os.Stdin)
	for scan.Scan() {
		if ctx.Err() != nil {
			return
		}
		fields := strings.Fields(scan.Text())
		if len(fields) == 0 {
			continue
		}
		if err := dispatch(mgr, stop, fields); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func dispatch(mgr *session.Manager, stop func(), fields []string) error {
	cmd, args := fields[0], fields[1:]
	arg := strings.Join(args, " ")

	switch cmd {
	case "scan":
		return mgr.StartScan(arg)
	case "extend":
		return mgr.ExtendScan(arg)
	case "stopscan":
		return mgr.StopScan()
	case "load":
		return mgr.LoadMap(arg)
	case "close":
		return mgr.CloseMap()
	case "save":
		return mgr.SaveMap()
	case "goto":
		return mgr.StartNavigation(arg)
	case "stopnav":
		mgr.StopNavigation()
		return nil
	case "poi":
		p, err := mgr.AddPOI(arg)
		if err != nil {
			return err
		}
		fmt.Printf("added POI %s %q\n", p.ID, p.Name)
		return nil
	case "pois":
		for _, p := range mgr.POIs() {
			fmt.Printf("%s  %-20s (%.1f, %.1f, %.1f)\n", p.ID, p.Name, p.Position.X, p.Position.Y, p.Position.Z)
		}
		return nil
	case "quit":
		stop()
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// replayFixtures feeds recorded pose frames through the manager at a fixed
// cadence, standing in for the live tracker.
func replayFixtures(ctx context.Context, mgr *session.Manager, path string) error {
	frames, err := loadFixtures(path)
	if err != nil {
		return err
	}
	log.Printf("replaying %d pose frames from %s", len(frames), path)

	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()
	for _, f := range frames {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			mgr.HandleFrame(f)
		}
	}
	return nil
}
