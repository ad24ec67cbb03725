// cmd/tools/interpret/main.go
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"tennis-booking/internal/app"
	"tennis-booking/internal/booking"
	"tennis-booking/internal/common/config"
	"tennis-booking/internal/common/logger"
	"tennis-booking/internal/models"
)

const failureMessage = "Sorry, I couldn't process your booking request. Please try again with more details."

type options struct {
	text       string
	now        string
	configPath string
	asJSON     bool
	verbose    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.text, "text", "", "Booking request; reads requests from stdin when empty")
	flag.StringVar(&opts.now, "now", "", "Reference time (RFC 3339 or YYYY-MM-DD HH:MM); defaults to the current time")
	flag.StringVar(&opts.configPath, "config", "", "Path to a config file; defaults to configs/config.yaml")
	flag.BoolVar(&opts.asJSON, "json", false, "Print the booking record as JSON")
	flag.BoolVar(&opts.verbose, "v", false, "Log at debug level")
	flag.Parse()

	if err := run(opts, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, in io.Reader, out io.Writer) error {
	now, err := parseNow(opts.now)
	if err != nil {
		return err
	}

	var cfg *config.Config
	if opts.configPath != "" {
		cfg, err = config.LoadFromFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	log := logger.NewStructured(level, "console", "stderr")

	ctx := context.Background()
	services, err := app.Bootstrap(ctx, cfg, log, app.Options{})
	if err != nil {
		return err
	}
	defer services.Close()

	interpret := func(text string) {
		at := now
		if at.IsZero() {
			at = time.Now()
		}
		rec, err := services.Interpreter.Interpret(ctx, text, at)
		if err != nil {
			fmt.Fprintln(out, failureMessage)
			return
		}
		if err := printRecord(out, rec, opts.asJSON); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}

	if strings.TrimSpace(opts.text) != "" {
		interpret(opts.text)
		return nil
	}

	fmt.Fprintln(out, "Enter your booking request (empty line or Ctrl-D to quit):")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		interpret(line)
	}
	return scanner.Err()
}

// parseNow returns the zero time for an empty value, meaning "use the clock".
func parseNow(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(booking.TimestampLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid -now %q: want RFC 3339 or %q", s, booking.TimestampLayout)
}

func printRecord(out io.Writer, rec *models.BookingRecord, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Fprintln(out, "Booking Details")
	for _, section := range booking.RenderSections(rec) {
		fmt.Fprintf(out, "\n%s\n", section.Title)
		for _, field := range section.Fields {
			fmt.Fprintf(out, "  %-18s %s\n", field.Label+":", field.Value)
		}
	}
	return nil
}
