// Package scraper harvests player biographical data from public profile
// pages and writes it in the roster's on-disk format.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/guesspro/guesspro-go/internal/dependencies/clock"
	"github.com/guesspro/guesspro-go/internal/dependencies/random"
	"github.com/guesspro/guesspro-go/internal/model"
)

const (
	maxRetries = 3

	// Polite delay bounds between page fetches
	minDelay = 1 * time.Second
	maxDelay = 2 * time.Second

	// Sniping scores above this mark a dedicated AWPer
	awperThreshold = 60

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
)

// Target names a player profile page to scrape
type Target struct {
	ID  string `json:"id"`
	URL string `json:"link"`
}

// Record is one scraped roster entry, matching the roster file format
type Record struct {
	Team         string `json:"team"`
	Country      string `json:"country"`
	BirthYear    int    `json:"birth_year"`
	MajorsPlayed int    `json:"majorsPlayed"`
	Role         string `json:"role"`
}

// Scraper fetches and parses player profile pages
type Scraper struct {
	client *http.Client
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

// New creates a scraper
func New(clk clock.Clock, rnd random.Random, logger *slog.Logger) *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: 30 * time.Second},
		clock:  clk,
		random: rnd,
		logger: logger.With(slog.String("component", "scraper")),
	}
}

// Run fetches every target, retrying transient failures, and returns the
// harvested records keyed by player id. Targets that keep failing are
// skipped and logged, not fatal.
func (s *Scraper) Run(ctx context.Context, targets []Target) map[string]Record {
	records := make(map[string]Record, len(targets))
	for i, target := range targets {
		s.logger.Info("fetching player",
			slog.String("id", target.ID),
			slog.Int("index", i+1),
			slog.Int("total", len(targets)))

		record, err := s.fetchWithRetry(ctx, target)
		if err != nil {
			s.logger.Warn("player skipped",
				slog.String("id", target.ID),
				slog.String("error", err.Error()))
			continue
		}
		records[target.ID] = *record

		if err := s.politeDelay(ctx); err != nil {
			break
		}
	}
	return records
}

func (s *Scraper) fetchWithRetry(ctx context.Context, target Target) (*Record, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		record, err := s.FetchPlayer(ctx, target)
		if err == nil {
			return record, nil
		}
		lastErr = err
		s.logger.Warn("fetch attempt failed",
			slog.String("id", target.ID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		if err := s.politeDelay(ctx); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("all %d attempts failed: %w", maxRetries, lastErr)
}

// FetchPlayer fetches and parses a single profile page
func (s *Scraper) FetchPlayer(ctx context.Context, target Target) (*Record, error) {
	doc, err := s.fetchDocument(ctx, target.URL)
	if err != nil {
		return nil, err
	}

	record := s.parseProfile(doc)

	// The achievement stats live behind a separate page load
	achievements, err := s.fetchDocument(ctx, target.URL+"#tab-achievementBox")
	if err == nil {
		record.MajorsPlayed = parseMajors(achievements)
	} else {
		s.logger.Warn("achievements unavailable",
			slog.String("id", target.ID),
			slog.String("error", err.Error()))
	}

	return record, nil
}

func (s *Scraper) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// parseProfile extracts the biographical fields from a profile document
func (s *Scraper) parseProfile(doc *goquery.Document) *Record {
	record := &Record{
		Team:    "No team",
		Country: "Unknown",
		Role:    string(model.RoleUnknown),
	}

	if alt, ok := doc.Find("div.playerRealname img.flag").First().Attr("alt"); ok {
		if alt = strings.TrimSpace(alt); alt != "" {
			record.Country = alt
		}
	}

	if team := text(doc, "div.playerTeam span.listRight span[itemprop='text']"); team != "" {
		record.Team = team
	}

	if ageText := text(doc, "div.playerAge span.listRight span[itemprop='text']"); ageText != "" {
		if age, err := strconv.Atoi(strings.Fields(ageText)[0]); err == nil {
			record.BirthYear = s.clock.Now().Year() - age
		}
	}

	if score, ok := parseSnipingScore(doc); ok {
		if score > awperThreshold {
			record.Role = string(model.RoleAWPer)
		} else {
			record.Role = string(model.RoleRifler)
		}
	}

	return record
}

// parseSnipingScore pulls the sniping stat the role is derived from
func parseSnipingScore(doc *goquery.Document) (int, bool) {
	score, found := 0, false
	doc.Find(".player-stat").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.TrimSpace(sel.Find("b").First().Text()) != "Sniping" {
			return true
		}
		val, err := strconv.Atoi(strings.TrimSpace(sel.Find(".statsVal b").First().Text()))
		if err != nil {
			return true
		}
		score, found = val, true
		return false
	})
	return score, found
}

// parseMajors counts major tournament appearances from the achievement
// stat cards. The label appears as both "Majors played" and "Major played".
func parseMajors(doc *goquery.Document) int {
	majors := 0
	doc.Find(".highlighted-stat").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		label := sel.Text()
		if !strings.Contains(label, "Majors played") && !strings.Contains(label, "Major played") {
			return true
		}
		if val, err := strconv.Atoi(strings.TrimSpace(sel.Find(".stat").First().Text())); err == nil {
			majors = val
		}
		return false
	})
	return majors
}

func text(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// politeDelay sleeps a random interval between fetches so the target
// site sees a human-ish request cadence
func (s *Scraper) politeDelay(ctx context.Context) error {
	jitter := time.Duration(s.random.Intn(int(maxDelay - minDelay)))
	select {
	case <-time.After(minDelay + jitter):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LoadTargets reads the target list file
func LoadTargets(path string) ([]Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets: %w", err)
	}
	var targets []Target
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("parse targets: %w", err)
	}
	return targets, nil
}

// Save writes records to disk in the roster file format
func Save(path string, records map[string]Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
