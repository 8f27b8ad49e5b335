package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/herohde/shogo/pkg/book"
	"github.com/herohde/shogo/pkg/engine"
	"github.com/herohde/shogo/pkg/engine/console"
	"github.com/herohde/shogo/pkg/engine/usi"
	"github.com/herohde/shogo/pkg/eval"
	"github.com/herohde/shogo/pkg/search"
	"github.com/herohde/shogo/pkg/tablebase"
	"github.com/seekerror/logw"
)

var (
	noise        = flag.Int("noise", 10, "Evaluation noise in centipawns (zero if deterministic)")
	depth        = flag.Uint("depth", 0, "Search depth limit (zero if unlimited)")
	hash         = flag.Uint("hash", 32, "Transposition table size in MB (zero to disable)")
	bookDir      = flag.String("book", "", "Badger-backed opening book directory (disabled if empty)")
	tablebaseDir = flag.String("tablebase", "", "Badger-backed micro-tablebase directory (disabled if empty)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: shogo [options]

SHOGO is a simple USI shogi engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	s := search.PVS{
		Explore: search.FullExploration,
		Eval: search.Quiescence{
			Explore: search.QuiescenceExploration,
			Eval:    eval.Randomize(eval.TaperedMaterial{Values: eval.Classic}, *noise, time.Now().UnixNano()),
		},
	}

	opts := []engine.Option{engine.WithOptions(engine.Options{
		Depth: *depth,
		Hash:  *hash,
		Noise: uint(*noise),
	})}

	if *bookDir != "" {
		db, err := book.Open(*bookDir)
		if err != nil {
			logw.Exitf(ctx, "Failed to open book %v: %v", *bookDir, err)
		}
		defer db.Close()
		opts = append(opts, engine.WithBook(db))
	}
	if *tablebaseDir != "" {
		db, err := tablebase.Open(*tablebaseDir)
		if err != nil {
			logw.Exitf(ctx, "Failed to open tablebase %v: %v", *tablebaseDir, err)
		}
		defer db.Close()
		opts = append(opts, engine.WithTablebase(db))
	}

	e := engine.New(ctx, "shogo", "herohde", s, opts...)

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case usi.ProtocolName:
		// Use USI protocol.

		driver, out := usi.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, s, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
