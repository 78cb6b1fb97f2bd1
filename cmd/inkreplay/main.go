// Command inkreplay replays a recorded signature and exports it.
//
// The event log is read from -in (or stdin) in the "timestamp,action,x,y"
// line format, or loaded from a store with -store and -id:
//
//	inkreplay -in sig.log -png sig.png -svg sig.svg -trim
//	inkreplay -store sqlite -dsn sigs.db -in sig.log
//	inkreplay -store sqlite -dsn sigs.db -id 6f1c... -pdf sig.pdf
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/export"
	_ "github.com/gogpu/ink/export/pdf"
	"github.com/gogpu/ink/persist"
	"github.com/gogpu/ink/store"
	_ "github.com/gogpu/ink/store/memory"
	_ "github.com/gogpu/ink/store/sqlite"
)

type flags struct {
	in, config  string
	png, svg    string
	pdf         string
	trim        bool
	storeName   string
	dsn, id     string
	verbose     bool
	pen, bg     string
	width       int
	height      int
	minW, maxW  int
	weight      float64
	coordinates string
}

func main() {
	var f flags
	flag.StringVar(&f.in, "in", "", "event log file, - for stdin")
	flag.StringVar(&f.config, "config", "", "TOML pen profile")
	flag.StringVar(&f.png, "png", "", "write PNG to file")
	flag.StringVar(&f.svg, "svg", "", "write SVG to file")
	flag.StringVar(&f.pdf, "pdf", "", "write PDF to file")
	flag.BoolVar(&f.trim, "trim", false, "crop raster output to the ink")
	flag.StringVar(&f.storeName, "store", "", "store driver ("+fmt.Sprint(store.Drivers())+")")
	flag.StringVar(&f.dsn, "dsn", "", "store data source")
	flag.StringVar(&f.id, "id", "", "signature id in the store")
	flag.BoolVar(&f.verbose, "v", false, "debug logging")
	flag.StringVar(&f.pen, "pen", "", "pen color, hex")
	flag.StringVar(&f.bg, "background", "", "background color, hex; empty is transparent")
	flag.IntVar(&f.width, "width", 0, "canvas width")
	flag.IntVar(&f.height, "height", 0, "canvas height")
	flag.IntVar(&f.minW, "min", 0, "minimum stroke width")
	flag.IntVar(&f.maxW, "max", 0, "maximum stroke width")
	flag.Float64Var(&f.weight, "weight", 0, "velocity filter weight")
	flag.StringVar(&f.coordinates, "coordinates", "", "non-finite coordinates: sanitize or reject")
	flag.Parse()

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	ink.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, f); err != nil {
		log.Fatalf("inkreplay: %v", err)
	}
}

// resolveProfile applies the profile file and then any flag set on the
// command line.
func resolveProfile(f flags) (profile, error) {
	p := defaultProfile()
	if f.config != "" {
		if err := loadProfile(f.config, &p); err != nil {
			return p, err
		}
	}
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "pen":
			p.Pen = f.pen
		case "background":
			p.Background = f.bg
		case "width":
			p.Width = f.width
		case "height":
			p.Height = f.height
		case "min":
			p.MinWidth = f.minW
		case "max":
			p.MaxWidth = f.maxW
		case "weight":
			p.Weight = float32(f.weight)
		case "coordinates":
			p.Coordinates = f.coordinates
		}
	})
	return p, nil
}

func run(ctx context.Context, f flags) error {
	p, err := resolveProfile(f)
	if err != nil {
		return err
	}
	opts, err := p.options()
	if err != nil {
		return err
	}
	bg, err := p.background()
	if err != nil {
		return err
	}

	var st store.Store
	if f.storeName != "" {
		st, err = store.Open(f.storeName, f.dsn)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	s, err := session(ctx, f, st, opts)
	if err != nil {
		return err
	}
	ink.Logger().Debug("replayed", "events", len(s.Events()))

	eo := export.Options{Background: bg, Trim: f.trim}
	outputs := []struct{ format, path string }{
		{"png", f.png},
		{"svg", f.svg},
		{"pdf", f.pdf},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := writeFile(out.path, out.format, s, eo); err != nil {
			return err
		}
	}
	return nil
}

// session builds the replayed session. With a store and an id but no input
// the log is loaded from the store; with a store and an input the input is
// persisted under id, or a new id that is printed.
func session(ctx context.Context, f flags, st store.Store, opts []ink.SessionOption) (*ink.Session, error) {
	if st != nil && f.in == "" {
		if f.id == "" {
			return nil, errors.New("-id is required to load from a store")
		}
		s, err := ink.NewSession(opts...)
		if err != nil {
			return nil, err
		}
		return s, store.RestoreSession(ctx, st, f.id, s)
	}

	events, err := readEvents(f.in)
	if err != nil {
		return nil, err
	}
	if st == nil {
		s, err := ink.NewSession(opts...)
		if err != nil {
			return nil, err
		}
		return s, replay(s, events)
	}

	id := f.id
	if id == "" {
		id = store.NewID()
	}
	sc := persist.New(st)
	done := make(chan error, 1)
	go func() { done <- sc.Run(ctx) }()

	s, err := ink.NewSession(append(opts, ink.WithCommitSink(sc.Sink(id)))...)
	if err == nil {
		err = replay(s, events)
	}
	_ = sc.Close()
	if runErr := <-done; err == nil {
		err = runErr
	}
	if err != nil {
		return nil, err
	}
	fmt.Println(id)
	return s, nil
}

func readEvents(path string) ([]ink.RawEvent, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var sig ink.Signature
	if err := sig.UnmarshalText(trimNewline(data)); err != nil {
		return nil, err
	}
	return sig.Events, nil
}

// trimNewline drops the newline editors add at the end of a file.
func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func replay(s *ink.Session, events []ink.RawEvent) error {
	for i, ev := range events {
		if _, err := s.Add(ev); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

func writeFile(path, format string, src export.Source, opts export.Options) error {
	e, err := export.New(format)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := e.Export(out, src, opts); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	ink.Logger().Info("wrote", "format", format, "path", path)
	return nil
}
