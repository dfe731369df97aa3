package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/himanishpuri/VocalDNA/internal/capture"
	"github.com/himanishpuri/VocalDNA/internal/chart"
	"github.com/himanishpuri/VocalDNA/internal/scoring"
	"github.com/himanishpuri/VocalDNA/internal/service"
	"github.com/himanishpuri/VocalDNA/internal/session"
	"github.com/himanishpuri/VocalDNA/pkg/logger"
)

// Global flags
var dbPath string

func init() {
	flag.StringVar(&dbPath, "db", getEnvOrDefault("VOCALDNA_DB_PATH", "vocaldna.sqlite3"), "Path to the SQLite session-history database")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func createService() (*service.KaraokeService, error) {
	return service.NewKaraokeServiceWithDB(dbPath)
}

func main() {
	log := logger.GetLogger()

	printBanner()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	log.Infof("Executing command: %s", command)

	switch command {
	case "parse":
		handleParse()
	case "score":
		handleScore()
	case "calibrate":
		handleCalibrate()
	case "live":
		handleLive()
	case "sessions":
		handleSessions()
	case "delete":
		handleDelete()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printBanner() {
	banner := `
__     __             _ ____  _   _    _
\ \   / /__   ___ __ _| |  _ \| \ | |  / \
 \ \ / / _ \ / __/ _' | | | | |  \| | / _ \
  \ V / (_) | (_| (_| | | |_| | |\  |/ ___ \
   \_/ \___/ \___\__,_|_|____/|_| \_/_/   \_\

           Karaoke Scoring CLI Tool
`
	fmt.Println(banner)
}

func handleParse() {
	log := logger.GetLogger()

	if len(os.Args) < 3 {
		fmt.Println("Usage: vocalDNA parse <chart_file>")
		os.Exit(1)
	}
	chartPath := os.Args[2]

	svc, err := createService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	song, key, err := svc.LoadChartFile(chartPath)
	if err != nil {
		fmt.Printf("❌ Failed to parse chart: %v\n", err)
		log.Errorf("LoadChartFile failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("\n✅ Parsed \"%s\" by %s\n", song.Meta.Title, song.Meta.Artist)
	fmt.Printf("   BPM:   %.2f (gap %.0fms)\n", song.Meta.BPM, song.Meta.GapMs)
	fmt.Printf("   Lines: %d, notes: %d\n", len(song.Lines), len(song.Notes(chart.PlayerBoth)))
	fmt.Printf("   Key:   %s\n", key[:12])
	if song.Meta.IsDuet() {
		fmt.Printf("   Duet:  %s / %s\n", song.Meta.DuetSingerP1, song.Meta.DuetSingerP2)
	}
	if !song.HasTiming() {
		fmt.Println("   ⚠️  Chart has no usable BPM; it cannot be scored")
	}

	fmt.Println("\n📜 Lyrics:")
	for _, line := range song.Lines {
		tag := ""
		switch line.Player {
		case chart.Player1:
			tag = "[P1] "
		case chart.Player2:
			tag = "[P2] "
		}
		fmt.Printf("   %s%s\n", tag, line.RenderedText())
	}
}

func handleScore() {
	log := logger.GetLogger()

	scoreCmd := flag.NewFlagSet("score", flag.ExitOnError)
	chartPath := scoreCmd.String("chart", "", "Chart file (required)")
	takePath := scoreCmd.String("take", "", "Recorded WAV take (required)")
	difficulty := scoreCmd.String("difficulty", "normal", "Difficulty: freestyle, easy, normal, hard")
	player := scoreCmd.Int("player", 0, "Duet player to score (0 = both)")
	offset := scoreCmd.Float64("offset", 0, "Calibration offset in semitones")
	noSave := scoreCmd.Bool("no-save", false, "Do not record this run in session history")
	scoreCmd.Parse(os.Args[2:])

	if *chartPath == "" || *takePath == "" {
		fmt.Println("Error: --chart and --take are required")
		fmt.Println("Usage: vocalDNA score --chart <file> --take <file.wav> [--difficulty normal] [--player 0] [--offset 0.0]")
		os.Exit(1)
	}

	svc, err := createService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	chartText, err := os.ReadFile(*chartPath)
	if err != nil {
		fmt.Printf("❌ Failed to read chart: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("🎤 Scoring take...")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := svc.ScoreTake(ctx, service.ScoreRequest{
		ChartText:         string(chartText),
		TakePath:          *takePath,
		Difficulty:        *difficulty,
		Player:            *player,
		CalibrationOffset: *offset,
		Persist:           !*noSave,
	})
	if err != nil {
		fmt.Printf("\n❌ Failed to score take: %v\n", err)
		log.Errorf("ScoreTake failed: %v", err)
		os.Exit(1)
	}

	printResult(res.Title, res.Artist, res.Result)
	if res.SessionID != "" {
		fmt.Printf("   Saved as session %s\n", res.SessionID)
	}
}

func handleCalibrate() {
	log := logger.GetLogger()

	calCmd := flag.NewFlagSet("calibrate", flag.ExitOnError)
	calCmd.Parse(os.Args[2:])
	paths := calCmd.Args()

	if len(paths) != 3 {
		fmt.Println("Usage: vocalDNA calibrate <c4.wav> <e4.wav> <g4.wav>")
		fmt.Println("  Record yourself matching C4, E4 and G4, one tone per file.")
		os.Exit(1)
	}

	svc, err := createService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	fmt.Println("🎼 Analyzing reference tones...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	offset, err := svc.Calibrate(ctx, paths, nil)
	if err != nil {
		fmt.Printf("\n❌ Calibration failed: %v\n", err)
		log.Errorf("Calibrate failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("\n✅ Calibration offset: %+.2f semitones\n", offset)
	fmt.Println("   Pass it to score/live runs with --offset")
}

func handleLive() {
	log := logger.GetLogger()

	liveCmd := flag.NewFlagSet("live", flag.ExitOnError)
	chartPath := liveCmd.String("chart", "", "Chart file (required)")
	difficulty := liveCmd.String("difficulty", "normal", "Difficulty: freestyle, easy, normal, hard")
	player := liveCmd.Int("player", 0, "Duet player to sing (0 = both)")
	offset := liveCmd.Float64("offset", 0, "Calibration offset in semitones")
	liveCmd.Parse(os.Args[2:])

	if *chartPath == "" {
		fmt.Println("Usage: vocalDNA live --chart <file> [--difficulty normal] [--player 0] [--offset 0.0]")
		os.Exit(1)
	}

	svc, err := createService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	song, _, err := svc.LoadChartFile(*chartPath)
	if err != nil {
		fmt.Printf("❌ Failed to parse chart: %v\n", err)
		os.Exit(1)
	}

	sess, err := session.New(session.Config{
		Song:              song,
		Player:            chart.Player(*player),
		Difficulty:        scoring.ParseDifficulty(*difficulty),
		CalibrationOffset: *offset,
	})
	if err != nil {
		fmt.Printf("❌ Cannot start session: %v\n", err)
		os.Exit(1)
	}

	rec, err := capture.NewRecorder(0)
	if err != nil {
		fmt.Printf("❌ Failed to open audio backend: %v\n", err)
		log.Errorf("Recorder init failed: %v", err)
		os.Exit(1)
	}
	defer rec.Close()

	if err := rec.Start(sess.PushWindow); err != nil {
		fmt.Printf("❌ Failed to start capture: %v\n", err)
		log.Errorf("Capture start failed: %v", err)
		os.Exit(1)
	}

	songEnd := 0.0
	for _, line := range song.Lines {
		if line.EndTime > songEnd {
			songEnd = line.EndTime
		}
	}

	fmt.Printf("\n🎤 Singing \"%s\" by %s (%s, ends at %.1fs)\n",
		song.Meta.Title, song.Meta.Artist, scoring.ParseDifficulty(*difficulty), songEnd)
	fmt.Println("   Ctrl+C stops early")
	fmt.Println()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	start := time.Now()
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	engine := sess.Engine()
	lastLine := ""
loop:
	for {
		select {
		case <-sigCh:
			fmt.Println("\n   Stopped early")
			break loop
		case <-ticker.C:
			now := time.Since(start).Seconds()
			sess.Tick(now)

			status := fmt.Sprintf("   %6.1fs  score %5.0f/%.0f", now, engine.Score(), engine.TotalMax())
			if fb, ok := engine.Feedback(now); ok {
				status += "  " + fb.Text
			}
			if engine.GoldenPulse(now) {
				status += "  ✨"
			}
			if status != lastLine {
				fmt.Printf("\r%-60s", status)
				lastLine = status
			}

			if now > songEnd+1.0 {
				break loop
			}
		}
	}

	rec.Stop()
	sess.Stop()
	result := sess.Finish()
	fmt.Println()
	printResult(song.Meta.Title, song.Meta.Artist, result)
}

func handleSessions() {
	log := logger.GetLogger()

	sessionsCmd := flag.NewFlagSet("sessions", flag.ExitOnError)
	limit := sessionsCmd.Int("limit", 20, "Maximum sessions to show (0 = all)")
	sessionsCmd.Parse(os.Args[2:])

	svc, err := createService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	recs, err := svc.ListSessions(*limit)
	if err != nil {
		fmt.Printf("❌ Failed to list sessions: %v\n", err)
		log.Errorf("ListSessions failed: %v", err)
		os.Exit(1)
	}

	if len(recs) == 0 {
		fmt.Println("\n📭 No sessions recorded yet")
		return
	}

	fmt.Printf("\n📚 Last %d session(s):\n\n", len(recs))
	for i, rec := range recs {
		fmt.Printf("%d. \"%s\" by %s (%s)\n", i+1, rec.Title, rec.Artist, rec.Difficulty)
		fmt.Printf("   %d/%d points, rank %s, golden %d/%d\n",
			rec.Score, rec.MaxScore, rec.Rank, rec.GoldenHit, rec.GoldenTotal)
		fmt.Printf("   %s  (id %s)\n", rec.CreatedAt.Format("2006-01-02 15:04"), rec.ID)
		fmt.Println()
	}
	log.Infof("Listed %d sessions", len(recs))
}

func handleDelete() {
	log := logger.GetLogger()

	if len(os.Args) < 3 {
		fmt.Println("Usage: vocalDNA delete <session_id>")
		os.Exit(1)
	}
	id := os.Args[2]

	svc, err := createService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	rec, err := svc.GetSession(id)
	if err != nil {
		fmt.Printf("❌ Session not found: %s\n", id)
		log.Warnf("Session %s not found: %v", id, err)
		os.Exit(1)
	}

	if err := svc.DeleteSession(id); err != nil {
		fmt.Printf("❌ Failed to delete session: %v\n", err)
		log.Errorf("DeleteSession failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("\n✅ Deleted session %s (\"%s\" by %s, %d points)\n",
		rec.ID, rec.Title, rec.Artist, rec.Score)
	log.Infof("Deleted session %s", rec.ID)
}

func printResult(title, artist string, res scoring.Result) {
	fmt.Printf("\n🏁 Result for \"%s\" by %s (%s)\n", title, artist, res.Difficulty)
	fmt.Printf("   Score:  %.0f / %.0f (%.1f%%)\n", res.Score, res.MaxScore, res.Percent*100)
	fmt.Printf("   Rank:   %s\n", res.Rank)
	fmt.Printf("   Notes:  %d perfect, %d excellent, %d good, %d ok\n",
		res.Stats.Perfect, res.Stats.Excellent, res.Stats.Good, res.Stats.OK)
	if res.GoldenTotal > 0 {
		fmt.Printf("   Golden: %d/%d\n", res.GoldenHit, res.GoldenTotal)
	}
}

func printUsage() {
	fmt.Println("VocalDNA - Karaoke Scoring CLI")
	fmt.Println("\nGlobal Options:")
	fmt.Println("  --db <path>        Path to SQLite database (env: VOCALDNA_DB_PATH, default: vocaldna.sqlite3)")
	fmt.Println("\nUsage:")
	fmt.Println("  vocalDNA [global-options] parse <chart_file>")
	fmt.Println("  vocalDNA [global-options] score --chart <file> --take <file.wav> [--difficulty normal] [--player 0] [--offset 0.0] [--no-save]")
	fmt.Println("  vocalDNA [global-options] calibrate <c4.wav> <e4.wav> <g4.wav>")
	fmt.Println("  vocalDNA [global-options] live --chart <file> [--difficulty normal] [--player 0] [--offset 0.0]")
	fmt.Println("  vocalDNA [global-options] sessions [--limit 20]")
	fmt.Println("  vocalDNA [global-options] delete <session_id>")
	fmt.Println("\nExamples:")
	fmt.Println("  # Inspect a chart")
	fmt.Println("  vocalDNA parse songs/queen.txt")
	fmt.Println()
	fmt.Println("  # Score a recorded take on hard")
	fmt.Println("  vocalDNA score --chart songs/queen.txt --take take.wav --difficulty hard")
	fmt.Println()
	fmt.Println("  # Calibrate, then sing live with the offset")
	fmt.Println("  vocalDNA calibrate c4.wav e4.wav g4.wav")
	fmt.Println("  vocalDNA live --chart songs/queen.txt --offset 0.25")
}
