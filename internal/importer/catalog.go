package importer

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gmkornilov/chess-puzzle-widget/internal/dao"
	"github.com/gmkornilov/chess-puzzle-widget/pkg/puzzle"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	FormatYAML = "yaml"
	FormatPGN  = "pgn"
)

// Source is where a puzzle set comes from: inline data or a URL to fetch.
type Source struct {
	Title  string `json:"title"`
	Format string `json:"format"`
	Data   string `json:"data,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Rejection explains why a puzzle was left out of the set.
type Rejection struct {
	Index  int    `json:"index"`
	FEN    string `json:"fen"`
	Moves  string `json:"moves"`
	Reason string `json:"reason"`
}

type Report struct {
	Set      dao.PuzzleSet `json:"set"`
	Rejected []Rejection   `json:"rejected,omitempty"`
}

type CatalogImporterFactory struct {
	Repo   dao.PuzzleRepository
	Client *http.Client
}

func NewCatalogImporterFactory(repo dao.PuzzleRepository) *CatalogImporterFactory {
	return &CatalogImporterFactory{
		Repo:   repo,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (f CatalogImporterFactory) CreateImporter(src Source) *CatalogImporter {
	return &CatalogImporter{
		source: src,
		repo:   f.Repo,
		client: f.Client,
	}
}

// CatalogImporter normalizes and validates every puzzle of a source and stores
// the valid ones as a new puzzle set.
type CatalogImporter struct {
	mu       sync.Mutex
	report   Report
	err      error
	done     bool
	progress float64

	source Source
	repo   dao.PuzzleRepository
	client *http.Client
}

var _ Worker = (*CatalogImporter)(nil)

func (c *CatalogImporter) StartWork() {
	go c.Import()
}

func (c *CatalogImporter) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

func (c *CatalogImporter) Result() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

func (c *CatalogImporter) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

func (c *CatalogImporter) Error() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Import runs the job on the calling goroutine and returns its report.
func (c *CatalogImporter) Import() (Report, error) {
	report, err := c.run()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report = report
	c.err = err
	c.done = true
	c.progress = 1
	return report, err
}

func (c *CatalogImporter) run() (Report, error) {
	data := []byte(c.source.Data)
	if c.source.URL != "" {
		fetched, err := c.fetch(c.source.URL)
		if err != nil {
			return Report{}, err
		}
		data = fetched
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Report{}, fmt.Errorf("empty puzzle source")
	}

	defs, err := parse(c.source.Format, data)
	if err != nil {
		return Report{}, err
	}

	report := Report{Set: dao.PuzzleSet{
		ID:      uuid.NewString(),
		Title:   c.source.Title,
		Created: primitive.NewDateTimeFromTime(time.Now()),
	}}
	for i, d := range defs {
		d = d.Normalized()
		if err := puzzle.Validate(d); err != nil {
			report.Rejected = append(report.Rejected, Rejection{Index: i, FEN: d.FEN, Moves: d.Moves, Reason: err.Error()})
		} else {
			report.Set.Puzzles = append(report.Set.Puzzles, d)
		}
		c.mu.Lock()
		c.progress = float64(i+1) / float64(len(defs))
		c.mu.Unlock()
	}
	if len(report.Set.Puzzles) == 0 {
		return report, fmt.Errorf("none of %d puzzles is valid", len(defs))
	}

	if c.repo != nil {
		if err := c.repo.InsertPuzzleSet(report.Set); err != nil {
			return report, fmt.Errorf("error saving puzzle set: %w", err)
		}
	}
	return report, nil
}

func (c *CatalogImporter) fetch(url string) ([]byte, error) {
	client := c.client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("error fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error fetching %s: status %d", url, resp.StatusCode)
	}
	return ioutil.ReadAll(resp.Body)
}

func parse(format string, data []byte) ([]puzzle.Definition, error) {
	switch strings.ToLower(format) {
	case "", FormatYAML, "yml":
		return puzzle.ParseCatalog(data)
	case FormatPGN:
		return puzzle.FromPGN(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("unknown puzzle format %q", format)
}

// FormatForPath guesses the source format from a file name.
func FormatForPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".pgn") {
		return FormatPGN
	}
	return FormatYAML
}
