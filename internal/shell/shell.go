// Package shell implements the interactive wildlife> prompt.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"mspro-labs/wildlife-finder/internal/assets"
	"mspro-labs/wildlife-finder/internal/models"
	"mspro-labs/wildlife-finder/internal/searcher"
)

const (
	Prompt       = "wildlife> "
	Farewell     = "Exiting the application."
	Unrecognized = "Error: Unrecognized command. Please try again."
	NoSightings  = "No sightings found."
)

// maxLineLen bounds how much of a single input line is kept. Longer lines are
// drained and rejected as unrecognized.
const maxLineLen = 64 * 1024

// State is the shell's lifecycle state.
type State int

const (
	Running State = iota
	Terminated
)

// Searcher is the query layer the shell dispatches to.
type Searcher interface {
	SearchSpecies(ctx context.Context, city string) ([]models.Species, error)
	SearchSightings(ctx context.Context, taxonID int, city string) ([]models.Sighting, error)
}

// Shell reads commands line by line and writes results to out.
type Shell struct {
	searcher Searcher
	in       *bufio.Reader
	out      io.Writer
	state    State
}

// New creates a shell in the Running state.
func New(s Searcher, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		searcher: s,
		in:       bufio.NewReader(in),
		out:      out,
		state:    Running,
	}
}

// State returns the current state.
func (sh *Shell) State() State { return sh.state }

// Run prints the help menu and processes commands until exit or end of input.
func (sh *Shell) Run(ctx context.Context) error {
	sh.printHelp()
	for sh.state == Running {
		fmt.Fprint(sh.out, Prompt)
		line, tooLong, err := sh.readLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return fmt.Errorf("read command: %w", err)
			}
			// end of input behaves like exit
			fmt.Fprintln(sh.out)
			sh.exit()
			break
		}
		if tooLong {
			fmt.Fprintln(sh.out, Unrecognized)
			continue
		}
		sh.Execute(ctx, line)
	}
	return nil
}

// readLine returns the next line without its line ending. tooLong is set when
// the line exceeded maxLineLen; the whole line is consumed either way.
func (sh *Shell) readLine() (line string, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, isPrefix, rerr := sh.in.ReadLine()
		if rerr != nil {
			if len(buf) > 0 || tooLong {
				return string(buf), tooLong, nil
			}
			return "", false, rerr
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLineLen {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

// Execute dispatches a single command line.
func (sh *Shell) Execute(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	command, args := fields[0], fields[1:]

	switch {
	case command == "help" && len(args) == 0:
		sh.printHelp()
	case command == "exit" && len(args) == 0:
		sh.exit()
	case command == "species" && len(args) == 1:
		sh.species(ctx, args[0], false)
	case command == "species" && len(args) == 2 && args[1] == "venomous":
		sh.species(ctx, args[0], true)
	case command == "sightings" && len(args) == 2:
		sh.sightings(ctx, args[0], args[1])
	default:
		fmt.Fprintln(sh.out, Unrecognized)
	}
}

func (sh *Shell) printHelp() {
	fmt.Fprint(sh.out, assets.HelpMenu())
}

func (sh *Shell) exit() {
	fmt.Fprintln(sh.out, Farewell)
	sh.state = Terminated
}

func (sh *Shell) species(ctx context.Context, city string, venomous bool) {
	species, err := sh.searcher.SearchSpecies(ctx, city)
	if err != nil {
		sh.printError(err)
		return
	}
	if venomous {
		species = searcher.FilterVenomous(species)
	}
	PrintSpecies(sh.out, species)
}

func (sh *Shell) sightings(ctx context.Context, city, rawTaxonID string) {
	taxonID, err := strconv.Atoi(rawTaxonID)
	if err != nil {
		fmt.Fprintf(sh.out, "Error: Invalid taxon ID %q.\n", rawTaxonID)
		return
	}
	sightings, err := sh.searcher.SearchSightings(ctx, taxonID, city)
	if err != nil {
		sh.printError(err)
		return
	}
	PrintSightings(sh.out, searcher.SortByDate(sightings))
}

func (sh *Shell) printError(err error) {
	var cityErr *searcher.CityError
	if !errors.As(err, &cityErr) {
		slog.Debug("Command failed", "err", err)
	}
	msg := err.Error()
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	fmt.Fprintf(sh.out, "Error: %s\n", msg)
}

// PrintSpecies writes one line per species.
func PrintSpecies(w io.Writer, species []models.Species) {
	for _, s := range species {
		fmt.Fprintf(w, "Species: %s, Pest Status: %s\n", s.CommonName, s.PestStatus)
	}
}

// PrintSightings writes one line per sighting, or a notice when there are none.
func PrintSightings(w io.Writer, sightings []models.Sighting) {
	if len(sightings) == 0 {
		fmt.Fprintln(w, NoSightings)
		return
	}
	for _, s := range sightings {
		fmt.Fprintf(w, "Sighting: %s (%s)\n", s.Locality, s.StartDate)
	}
}
