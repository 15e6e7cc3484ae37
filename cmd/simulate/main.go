package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang/geo/r2"

	"github.com/avewell/fieldtours-backend-go/internal/cluster"
	"github.com/avewell/fieldtours-backend-go/internal/energy"
	"github.com/avewell/fieldtours-backend-go/internal/grid"
	"github.com/avewell/fieldtours-backend-go/internal/planner"
	"github.com/avewell/fieldtours-backend-go/internal/render"
	"github.com/avewell/fieldtours-backend-go/internal/service"
	"github.com/avewell/fieldtours-backend-go/internal/spatial"
	"github.com/avewell/fieldtours-backend-go/internal/stats"
)

func main() {
	segments := flag.Int("segments", 40, "number of stranded segments to scatter")
	agents := flag.Int("agents", 4, "relay agent fleet size")
	width := flag.Float64("width", 600, "field width in metres")
	height := flag.Float64("height", 600, "field height in metres")
	cellSide := flag.Float64("cell", 30, "grid cell side in metres")
	collectionRange := flag.Float64("range", 30, "collection range in metres")
	seed := flag.Int64("seed", 0, "segment placement seed (default: current unix time)")
	out := flag.String("out", "", "write the tour map PNG to this file")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().Unix()
	}
	log.Printf("[Simulate] %d segments over %.0fx%.0fm, %d agents, seed %d",
		*segments, *width, *height, *agents, *seed)

	rows := service.GenerateSegments(*segments, *width, *height, *seed)
	points := make([]r2.Point, len(rows))
	for i, seg := range rows {
		points[i] = r2.Point{X: seg.X, Y: seg.Y}
	}

	g, err := grid.New(points, grid.Params{
		WidthMeters:           *width,
		HeightMeters:          *height,
		CellSideMeters:        *cellSide,
		CollectionRangeMeters: *collectionRange,
	})
	if err != nil {
		log.Fatalf("[Simulate] %v", err)
	}

	p, err := planner.New(g, planner.Options{AgentCount: *agents})
	if err != nil {
		log.Fatalf("[Simulate] %v", err)
	}

	res, err := p.Plan()
	if err != nil {
		log.Fatalf("[Simulate] planning failed: %v", err)
	}
	model := p.Model().(*energy.FieldModel)

	fmt.Printf("branch: %s   cover: %d cells   balancer rounds: %d\n",
		res.Branch, len(res.Cover), res.BalancerRounds)
	fmt.Printf("initial movement: %.1f J   initial comms: %.1f J\n\n",
		res.InitialMovementEnergy, res.InitialCommsEnergy)

	fmt.Printf("%-8s %6s %10s %15s %15s %15s\n", "tour", "cells", "path (m)", "movement (J)", "comms (J)", "total (J)")
	totals := make([]float64, 0, len(res.Tours)+1)
	for _, tour := range res.Tours {
		totals = append(totals, printTour(fmt.Sprintf("%d", tour.ID), tour, model))
	}
	totals = append(totals, printTour("hub", res.Hub, model))

	sum := stats.Summarize(totals)
	fmt.Printf("\nenergy summary: min %.1f   median %.1f   max %.1f   stddev %.2f\n",
		sum.Min, sum.Median, sum.Max, stats.PopStdDev(totals))
	fmt.Printf("balancing: stddev %.2f -> %.2f\n", res.PreBalanceStdDev, res.FinalStdDev)

	if *out != "" {
		if err := writeMap(*out, *width, *height, points, res); err != nil {
			log.Fatalf("[Simulate] %v", err)
		}
		log.Printf("[Simulate] tour map written to %s", *out)
	}
}

func printTour(label string, c *cluster.Cluster, model *energy.FieldModel) float64 {
	movement := model.MovementEnergy(c.ID)
	comms := model.CommsEnergy(c.ID)
	total := movement + comms
	path := spatial.PathLength(cellPoints(c))
	fmt.Printf("%-8s %6d %10.1f %15.1f %15.1f %15.1f\n", label, len(c.Cells), path, movement, comms, total)
	return total
}

func cellPoints(c *cluster.Cluster) []r2.Point {
	pts := make([]r2.Point, len(c.Cells))
	for i, cell := range c.Cells {
		pts[i] = cell.Location
	}
	return pts
}

func writeMap(path string, width, height float64, segments []r2.Point, res *planner.Result) error {
	tours := make([]render.TourPath, 0, len(res.Tours)+1)
	for _, tour := range res.Tours {
		tours = append(tours, render.TourPath{
			Label: fmt.Sprintf("tour %d", tour.ID),
			Cells: cellPoints(tour),
		})
	}
	tours = append(tours, render.TourPath{Label: "hub", IsHub: true, Cells: cellPoints(res.Hub)})

	m := render.TourMap{
		Title:        fmt.Sprintf("%d segments, %d tours", len(segments), len(tours)),
		WidthMeters:  width,
		HeightMeters: height,
		Segments:     segments,
		Tours:        tours,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := m.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
