package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.bug.st/serial"

	"go-track-player/config"
	"go-track-player/playback"
	"go-track-player/track"
)

// Version information - populated at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information and exit")
		configPath  = flag.String("config", "", "YAML settings file (flags override file values)")
		speed       = flag.Float64("speed", 1.0, "Playback speed multiplier (points per tick, 1-100)")
		transform   = flag.Bool("transform", false, "Convert coordinates from WGS-84 to GCJ-02")
		keepHeading = flag.Bool("keep-heading", false, "Keep the camera heading fixed instead of following the track")
		rate        = flag.Duration("rate", 100*time.Millisecond, "Playback tick interval")
		serialPort  = flag.String("serial", "", "Serial port for NMEA output (e.g., /dev/ttyUSB0, COM1)")
		baudRate    = flag.Int("baud", 9600, "Serial port baud rate")
		nmeaStdout  = flag.Bool("nmea", false, "Write NMEA sentences to stdout (disables the progress bar)")
		duration    = flag.Duration("duration", 0, "Stop playback after this long (0 = play to the end)")
		quiet       = flag.Bool("quiet", false, "Suppress info messages")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] track.gpx\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nGPX Track Player\n")
		fmt.Fprintf(os.Stderr, "Replays a GPX track as a timed playback with derived speed, heading and\n")
		fmt.Fprintf(os.Stderr, "camera-follow pose, optionally emitting NMEA sentences.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		if Version != "dev" {
			fmt.Printf("v%s\n", Version)
		} else {
			fmt.Printf("%s\n", Commit)
		}
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	gpxPath := flag.Arg(0)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", *configPath, err)
		}
		cfg = loaded
	}

	// Explicitly set flags win over the settings file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "speed":
			cfg.Playback.SpeedMultiplier = *speed
		case "transform":
			cfg.Playback.ApplyTransform = *transform
		case "keep-heading":
			cfg.Playback.KeepHeading = *keepHeading
		case "rate":
			cfg.Playback.TickIntervalMS = int(rate.Milliseconds())
		case "serial":
			cfg.Serial.Port = *serialPort
		case "baud":
			cfg.Serial.BaudRate = *baudRate
		}
	})

	if cfg.Playback.SpeedMultiplier <= 0 || cfg.Playback.SpeedMultiplier > 100 {
		log.Fatal("Speed multiplier must be positive and at most 100")
	}
	if cfg.Playback.TickIntervalMS <= 0 {
		log.Fatal("Tick interval must be positive")
	}

	points, err := track.ParseFile(gpxPath, cfg.Playback.ApplyTransform)
	if err != nil {
		log.Fatalf("Failed to read track: %v", err)
	}
	if len(points) == 0 {
		log.Fatalf("No track points found in %s", gpxPath)
	}

	engine := playback.New()
	if err := engine.SetSpeedMultiplier(cfg.Playback.SpeedMultiplier); err != nil {
		log.Fatalf("Invalid playback speed: %v", err)
	}
	if err := engine.SetTickInterval(time.Duration(cfg.Playback.TickIntervalMS) * time.Millisecond); err != nil {
		log.Fatalf("Invalid tick interval: %v", err)
	}
	if err := engine.SetCamera(cfg.Camera.Distance, cfg.Camera.Pitch); err != nil {
		log.Fatalf("Invalid camera settings: %v", err)
	}
	engine.SetKeepHeading(cfg.Playback.KeepHeading)

	if cfg.Serial.Port != "" {
		mode := &serial.Mode{
			BaudRate: cfg.Serial.BaudRate,
			Parity:   serial.NoParity,
			DataBits: 8,
			StopBits: serial.OneStopBit,
		}
		port, err := serial.Open(cfg.Serial.Port, mode)
		if err != nil {
			log.Fatalf("Failed to open serial port %s: %v", cfg.Serial.Port, err)
		}
		defer port.Close()
		engine.SetNMEAWriter(port)

		if !*quiet {
			fmt.Fprintf(os.Stderr, "Opened serial port: %s at %d baud\n", cfg.Serial.Port, cfg.Serial.BaudRate)
		}
	} else if *nmeaStdout {
		engine.SetNMEAWriter(os.Stdout)
	}

	var bar *progressbar.ProgressBar
	if !*nmeaStdout && !*quiet {
		bar = newPlaybackBar(len(points) - 1)
		engine.AddCallback(func(status playback.Status) {
			_ = bar.Set(status.Cursor)
		})
	}

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Playing %s: %d points\n", gpxPath, len(points))
		fmt.Fprintf(os.Stderr, "Speed: %.1fx, tick: %dms, transform: %v\n",
			cfg.Playback.SpeedMultiplier, cfg.Playback.TickIntervalMS, cfg.Playback.ApplyTransform)
	}

	engine.Load(points)
	engine.Play()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	var deadline <-chan time.Time
	if *duration > 0 {
		deadline = time.After(*duration)
	}

	poll := time.NewTicker(time.Duration(cfg.Playback.TickIntervalMS) * time.Millisecond)
	defer poll.Stop()

loop:
	for {
		select {
		case <-interrupt:
			engine.Pause()
			break loop
		case <-deadline:
			engine.Pause()
			break loop
		case <-poll.C:
			if engine.Status().State != playback.Playing {
				break loop
			}
		}
	}

	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	if !*quiet {
		status := engine.Status()
		fmt.Fprintf(os.Stderr, "Stopped at point %d/%d (%.0f%%), elevation %.1fm, speed %.1f km/h\n",
			status.Cursor+1, status.Total, status.Progress*100,
			status.Position.Elevation, status.Position.SpeedKmh)
	}
}

// newPlaybackBar builds the progress bar tracking the playback cursor.
func newPlaybackBar(total int) *progressbar.ProgressBar {
	theme := progressbar.Theme{
		Saucer:        "=",
		SaucerHead:    ">",
		SaucerPadding: " ",
		BarStart:      "[",
		BarEnd:        "]",
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetTheme(theme),
		progressbar.OptionSetDescription("[playback]"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
}
