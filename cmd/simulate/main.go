package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/playmatatu/poolsim/internal/config"
	"github.com/playmatatu/poolsim/internal/game"
	"github.com/playmatatu/poolsim/internal/logging"
)

func main() {
	physicsPath := flag.String("physics", "", "Path to physics.yaml (empty = embedded defaults)")
	tablePath := flag.String("table", "", "Path to a JSON table snapshot (empty = fresh rack)")
	vx := flag.Float64("vx", 0, "Cue ball velocity along the width, mm/s")
	vy := flag.Float64("vy", -1500, "Cue ball velocity along the length, mm/s")
	csvPath := flag.String("csv", "", "Write sampled frames as CSV to this file")
	interval := flag.Float64("interval", game.FrameInterval, "Frame interval in seconds for -csv")
	quiet := flag.Bool("quiet", false, "Only print the final table")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	logger := logging.New(*logLevel, "development")

	params, err := config.LoadPhysics(*physicsPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading physics")
	}

	table, err := loadTable(*tablePath, params)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading table")
	}

	shot, err := table.Shoot(game.Coord{X: *vx, Y: *vy})
	if err != nil {
		logger.Fatal().Err(err).Msg("shot failed")
	}

	if !*quiet {
		fmt.Print(shot.Start.String())
		for _, seg := range shot.Segments {
			fmt.Print(seg.String())
		}
	} else {
		fmt.Print(shot.Final().String())
	}

	logger.Info().
		Int("segments", len(shot.Segments)).
		Float64("duration", shot.Final().Time).
		Msg("shot settled")

	if *csvPath != "" {
		frames, err := shot.Frames(*interval)
		if err != nil {
			logger.Fatal().Err(err).Msg("sampling frames")
		}
		rows := game.FrameRows(frames)
		f, err := os.Create(*csvPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("creating csv")
		}
		defer f.Close()
		if err := gocsv.MarshalFile(&rows, f); err != nil {
			logger.Fatal().Err(err).Msg("writing csv")
		}
		logger.Info().Str("path", *csvPath).Int("rows", len(rows)).Msg("frames written")
	}
}

func loadTable(path string, params game.Params) (*game.Table, error) {
	if path == "" {
		t := game.NewRackedTable()
		t.Params = params
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap game.TableSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if snap.Params == (game.Params{}) {
		snap.Params = params
	}
	return game.FromSnapshot(snap)
}
