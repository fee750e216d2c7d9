// Package insee retrieves price indices from the INSEE BDM database.
//
// INSEE series are selected with a CPI override "INSEE-<idBank>", for
// instance INSEE-001759970 for the French consumer price index.
package insee

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/realvalue"
	"github.com/etnz/realvalue/httpcache"
)

// Prefix marks a CPI override as an INSEE idBank.
const Prefix = "INSEE-"

// DefaultBaseURL is the INSEE BDM endpoint.
const DefaultBaseURL = "https://bdm.insee.fr/series"

// Client downloads INSEE series.
type Client struct {
	client  *http.Client
	BaseURL string
}

// New returns a client. A nil client uses a monthly disk cache.
func New(client *http.Client) *Client {
	if client == nil {
		client = httpcache.NewClient("", httpcache.Monthly)
	}
	return &Client{client: client, BaseURL: DefaultBaseURL}
}

// IsOverride reports whether a CPI override designates an INSEE series.
func IsOverride(override string) bool { return strings.HasPrefix(override, Prefix) }

// CPI implements realvalue.CPISource for INSEE overrides.
func (c *Client) CPI(ctx context.Context, code, override string, from realvalue.Month) (*realvalue.Series, realvalue.CPIInfo, error) {
	if !IsOverride(override) {
		return nil, realvalue.CPIInfo{}, fmt.Errorf("INSEE has no default CPI for %s, use an override like %s=%s<idBank>", code, code, Prefix)
	}
	idBank := strings.TrimPrefix(override, Prefix)
	series, err := c.Series(ctx, idBank, from.Add(-realvalue.DefaultMaxGap), realvalue.ThisMonth())
	if err != nil {
		return nil, realvalue.CPIInfo{}, fmt.Errorf("failed to get series for INSEE ID %s: %w", idBank, err)
	}
	return series.Values, realvalue.CPIInfo{ID: override, Title: series.Libelle}, nil
}

// Series constructs the URL, downloads, and parses an INSEE time series.
func (c *Client) Series(ctx context.Context, idBank string, from, to realvalue.Month) (*Series, error) {
	startQuarter := (int(from.Calendar())-1)/3 + 1
	endQuarter := (int(to.Calendar())-1)/3 + 1

	url := fmt.Sprintf("%s/%s/csv?lang=fr&ordre=antechronologique&transposition=donneescolonne&periodeDebut=%d&anneeDebut=%d&periodeFin=%d&anneeFin=%d&revision=sansrevisions",
		c.BaseURL,
		idBank,
		startQuarter,
		from.Year(),
		endQuarter,
		to.Year(),
	)
	log.Println("Downloading from INSEE:", url)

	body, err := httpcache.Get(ctx, c.client, url)
	if err != nil {
		return nil, fmt.Errorf("failed to download from INSEE for ID %s: %w", idBank, err)
	}

	zipReader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive from INSEE response: %w", err)
	}

	var foundFiles []string
	for _, f := range zipReader.File {
		filename := f.Name
		foundFiles = append(foundFiles, filename)
		if filename == "valeurs_trimestrielles.csv" || filename == "valeurs_mensuelles.csv" {
			log.Println("Found", filename)
			csvFile, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open '%s' from zip archive: %w", filename, err)
			}
			defer csvFile.Close()
			return parseSeries(csvFile)
		}
	}

	return nil, fmt.Errorf("could not find a values file (mensuelles or trimestrielles) in downloaded zip file for ID %s (found: %s)", idBank, strings.Join(foundFiles, ", "))
}

// Series holds the data from an INSEE time series CSV file.
type Series struct {
	Libelle    string
	IDBank     string
	LastUpdate time.Time
	Values     *realvalue.Series
}

// parseInseeDate parses a string like "2025-T2" or "2025-08" into the month
// that closes the period.
func parseInseeDate(s string) (realvalue.Month, error) {
	if strings.Contains(s, "-T") {
		return parseQuarterlyDate(s)
	}

	year, month, ok := strings.Cut(s, "-")
	if !ok {
		return realvalue.Month{}, fmt.Errorf("unrecognized insee date format: %q", s)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return realvalue.Month{}, fmt.Errorf("invalid year in monthly date %q: %w", s, err)
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return realvalue.Month{}, fmt.Errorf("invalid month in monthly date %q: %v", s, err)
	}
	return realvalue.NewMonth(y, time.Month(m)), nil
}

// parseQuarterlyDate parses a string like "2025-T2" into the last month of that quarter.
func parseQuarterlyDate(s string) (realvalue.Month, error) {
	year, quarter, ok := strings.Cut(s, "-T")
	if !ok {
		return realvalue.Month{}, fmt.Errorf("invalid quarterly date format: %q", s)
	}

	y, err := strconv.Atoi(year)
	if err != nil {
		return realvalue.Month{}, fmt.Errorf("invalid year in quarterly date %q: %w", s, err)
	}

	q, err := strconv.Atoi(quarter)
	if err != nil || q < 1 || q > 4 {
		return realvalue.Month{}, fmt.Errorf("invalid quarter in quarterly date %q: %v", s, err)
	}
	return realvalue.NewMonth(y, time.Month(q*3)), nil
}

// parseSeries reads the INSEE CSV format from an io.Reader.
func parseSeries(r io.Reader) (*Series, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	if len(records) < 4 {
		return nil, fmt.Errorf("not enough records in csv to parse series")
	}

	series := &Series{
		Libelle: records[0][1],
		IDBank:  records[1][1],
		Values:  realvalue.NewSeries(realvalue.CPIIndex, Prefix+records[1][1]),
	}

	series.LastUpdate, err = time.Parse("02/01/2006 15:04", records[2][1])
	if err != nil {
		return nil, fmt.Errorf("failed to parse last update date %q: %w", records[2][1], err)
	}

	for i := 4; i < len(records); i++ {
		if len(records[i]) > 1 && records[i][1] != "" {
			month, err := parseInseeDate(records[i][0])
			if err != nil {
				// Don't wrap, parseInseeDate provides good context
				return nil, err
			}
			val, err := strconv.ParseFloat(records[i][1], 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse value %q for date %q: %w", records[i][1], records[i][0], err)
			}
			series.Values.Append(month.First(), val)
		}
	}
	return series, nil
}
