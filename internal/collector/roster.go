package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"IndexHarvest/internal/model"
)

// DefaultRosterURL lists the S&P 500 constituents in its first table.
const DefaultRosterURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

// WikipediaRoster scrapes the constituent table of a Wikipedia list page.
type WikipediaRoster struct {
	URL    string
	Client *http.Client
}

// NewWikipediaRoster creates a roster fetcher for url with optional proxy support.
func NewWikipediaRoster(url, proxyURL string) *WikipediaRoster {
	if url == "" {
		url = DefaultRosterURL
	}
	return &WikipediaRoster{URL: url, Client: newHTTPClient(proxyURL)}
}

// FetchRoster downloads the page and parses its first table.
func (r *WikipediaRoster) FetchRoster(ctx context.Context) ([]model.RosterEntry, error) {
	fail := func(err error) ([]model.RosterEntry, error) {
		return nil, &RosterUnavailable{Source: r.URL, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return fail(err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := r.Client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fail(fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body)))
	}

	entries, err := ParseRosterHTML(resp.Body)
	if err != nil {
		return fail(err)
	}
	log.WithFields(log.Fields{"source": r.URL, "constituents": len(entries)}).Info("roster retrieved")
	return entries, nil
}

// ParseRosterHTML reads the first table of an HTML document into roster entries.
// Column headers are normalized to lower_case_with_underscores; symbol,
// security and gics_sector are required.
func ParseRosterHTML(rd io.Reader) ([]model.RosterEntry, error) {
	doc, err := html.Parse(rd)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	table := findFirst(doc, "table")
	if table == nil {
		return nil, fmt.Errorf("no table found")
	}

	var header []string
	var records []map[string]string
	for _, tr := range findAll(table, "tr") {
		var cells []string
		var isHeader bool
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || (c.Data != "th" && c.Data != "td") {
				continue
			}
			if c.Data == "th" {
				isHeader = true
			}
			cells = append(cells, cellText(c))
		}
		if len(cells) == 0 {
			continue
		}
		if header == nil {
			if !isHeader {
				return nil, fmt.Errorf("table has no header row")
			}
			header = make([]string, len(cells))
			for i, h := range cells {
				header[i] = NormalizeColumn(h)
			}
			continue
		}
		rec := make(map[string]string, len(header))
		for i, v := range cells {
			if i < len(header) {
				rec[header[i]] = v
			}
		}
		records = append(records, rec)
	}

	for _, col := range []string{"symbol", "security", "gics_sector"} {
		if !contains(header, col) {
			return nil, fmt.Errorf("table is missing column %q", col)
		}
	}

	entries := make([]model.RosterEntry, 0, len(records))
	for _, rec := range records {
		if rec["symbol"] == "" {
			continue
		}
		entries = append(entries, model.RosterEntry{
			Symbol:       rec["symbol"],
			CompanyName:  rec["security"],
			Sector:       rec["gics_sector"],
			DateAdded:    parseDate(rec["date_added"]),
			Active:       true,
			Headquarters: null.NewString(rec["headquarters_location"], rec["headquarters_location"] != ""),
			FoundedYear:  parseYear(rec["founded"]),
		})
	}
	entries = dedupe(entries)
	if len(entries) == 0 {
		return nil, fmt.Errorf("table has no constituents")
	}
	return entries, nil
}

// NormalizeColumn lower-cases a column name and replaces spaces with underscores.
func NormalizeColumn(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// cellText concatenates the text of a cell, skipping footnote markers.
func cellText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "sup" {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func parseDate(s string) null.Time {
	t, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return null.Time{}
	}
	return null.TimeFrom(t)
}

// parseYear reads the leading four-digit year of values like "1902" or "2013 (1888)".
func parseYear(s string) null.Int {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return null.Int{}
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil {
		return null.Int{}
	}
	return null.IntFrom(int64(y))
}

// dedupe keeps the first entry of every symbol.
func dedupe(entries []model.RosterEntry) []model.RosterEntry {
	seen := make(map[string]bool, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if seen[e.Symbol] {
			log.WithField("symbol", e.Symbol).Warn("duplicate roster symbol dropped")
			continue
		}
		seen[e.Symbol] = true
		out = append(out, e)
	}
	return out
}

// FileRoster loads the roster from a local file: .txt holds one symbol per
// line, .json an array of entries.
type FileRoster struct {
	Path string
}

type fileRosterEntry struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`
	DateAdded   string `json:"date_added"`
}

func (r *FileRoster) FetchRoster(_ context.Context) ([]model.RosterEntry, error) {
	entries, err := r.load()
	if err != nil {
		return nil, &RosterUnavailable{Source: r.Path, Cause: err}
	}
	entries = dedupe(entries)
	if len(entries) == 0 {
		return nil, &RosterUnavailable{Source: r.Path, Cause: fmt.Errorf("no constituents")}
	}
	log.WithFields(log.Fields{"source": r.Path, "constituents": len(entries)}).Info("roster loaded")
	return entries, nil
}

func (r *FileRoster) load() ([]model.RosterEntry, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(r.Path), ".json") {
		var raw []fileRosterEntry
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode roster: %w", err)
		}
		entries := make([]model.RosterEntry, 0, len(raw))
		for _, e := range raw {
			if e.Symbol == "" {
				continue
			}
			entries = append(entries, model.RosterEntry{
				Symbol:      strings.TrimSpace(e.Symbol),
				CompanyName: e.CompanyName,
				Sector:      sectorOrUnknown(e.Sector),
				DateAdded:   parseDate(e.DateAdded),
				Active:      true,
			})
		}
		return entries, nil
	}

	var entries []model.RosterEntry
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, model.RosterEntry{Symbol: line, Sector: model.UnknownSector, Active: true})
	}
	return entries, nil
}

func sectorOrUnknown(sector string) string {
	if s := strings.TrimSpace(sector); s != "" {
		return s
	}
	return model.UnknownSector
}
