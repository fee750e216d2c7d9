package insee

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/etnz/realvalue"
)

func TestParseSeries(t *testing.T) {
	csvData := `"Libellé";"Indice des prix à la consommation - Base 2015 - Ensemble des ménages - France - Ensemble";"Codes"
"idBank";"001759970";""
"Dernière mise à jour";"28/08/2025 08:45";""
"Période";"";""
"2025-T4";"";""
"2025-T3";"";""
"2025-T2";"135.2";"P"
"2025-T1";"135.6";"A"
"2024-T4";"133.4";"A"
`

	reader := strings.NewReader(csvData)
	series, err := parseSeries(reader)
	if err != nil {
		t.Fatalf("parseSeries() failed: %v", err)
	}

	expectedLibelle := "Indice des prix à la consommation - Base 2015 - Ensemble des ménages - France - Ensemble"
	if series.Libelle != expectedLibelle {
		t.Errorf("got Libelle %q, want %q", series.Libelle, expectedLibelle)
	}

	expectedIDBank := "001759970"
	if series.IDBank != expectedIDBank {
		t.Errorf("got IDBank %q, want %q", series.IDBank, expectedIDBank)
	}
	if got, want := series.Values.ID, "INSEE-001759970"; got != want {
		t.Errorf("got series ID %q, want %q", got, want)
	}

	expectedLastUpdate := time.Date(2025, 8, 28, 8, 45, 0, 0, time.UTC)
	if !series.LastUpdate.Equal(expectedLastUpdate) {
		t.Errorf("got LastUpdate %v, want %v", series.LastUpdate, expectedLastUpdate)
	}

	points := series.Values.Monthly()
	if len(points) != 3 {
		t.Fatalf("got %d values, want 3", len(points))
	}
	// quarters are reported on their last month, in chronological order.
	want := []realvalue.TimePoint{
		{Month: realvalue.MustParseMonth("2024-12"), Value: 133.4},
		{Month: realvalue.MustParseMonth("2025-03"), Value: 135.6},
		{Month: realvalue.MustParseMonth("2025-06"), Value: 135.2},
	}
	for i, w := range want {
		if points[i] != w {
			t.Errorf("point %d = %v, want %v", i, points[i], w)
		}
	}
}

func TestParseInseeDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "2025-08", want: "2025-08"},
		{input: "2025-T1", want: "2025-03"},
		{input: "2024-T4", want: "2024-12"},
		{input: "2025-13", wantErr: true},
		{input: "2025", wantErr: true},
		{input: "abcd-T1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseInseeDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseInseeDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("parseInseeDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSeries_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		csvData string
		wantErr string
	}{
		{
			name: "bad last update date",
			csvData: `"Libellé";"..."
"idBank";"..."
"Dernière mise à jour";"not-a-date"
"Période";""
`,
			wantErr: "failed to parse last update date",
		},
		{
			name: "bad quarterly date",
			csvData: `"Libellé";"..."
"idBank";"..."
"Dernière mise à jour";"28/08/2025 08:45"
"Période";""
"2025-T5";"135.2"`,
			wantErr: "invalid quarter in quarterly date",
		},
		{
			name: "bad value",
			csvData: `"Libellé";"..."
"idBank";"..."
"Dernière mise à jour";"28/08/2025 08:45"
"Période";""
"2025-T2";"not-a-float"`,
			wantErr: "failed to parse value",
		},
		{
			name: "not enough records",
			csvData: `"Libellé";"..."
"idBank";"..."`,
			wantErr: "not enough records in csv",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reader := strings.NewReader(tc.csvData)
			_, err := parseSeries(reader)
			if err == nil {
				t.Fatalf("parseSeries() expected an error, but got none")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("parseSeries() error = %q, want to contain %q", err, tc.wantErr)
			}
		})
	}
}

// zipped returns a zip archive holding one file.
func zipped(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestClient_CPI(t *testing.T) {
	archive := zipped(t, "valeurs_mensuelles.csv", `"Libellé";"IPC Ensemble"
"idBank";"001759970"
"Dernière mise à jour";"15/01/2025 08:45"
"Période";""
"2024-12";"120.5"
"2024-11";"120.1"
`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/001759970/csv" {
			http.NotFound(w, r)
			return
		}
		w.Write(archive)
	}))
	defer srv.Close()

	c := New(http.DefaultClient)
	c.BaseURL = srv.URL
	ctx := context.Background()
	from := realvalue.MustParseMonth("2024-11")

	s, info, err := c.CPI(ctx, "EUR", "INSEE-001759970", from)
	if err != nil {
		t.Fatalf("CPI() unexpected error: %v", err)
	}
	if info.ID != "INSEE-001759970" || info.Title != "IPC Ensemble" {
		t.Errorf("CPI() info = %+v", info)
	}
	if latest, _ := s.Latest(); latest.Value != 120.5 {
		t.Errorf("latest value = %v want 120.5", latest.Value)
	}

	if _, _, err := c.CPI(ctx, "EUR", "", from); err == nil {
		t.Error("CPI() without an INSEE override want error")
	}
	if _, _, err := c.CPI(ctx, "EUR", "INSEE-000000000", from); err == nil {
		t.Error("CPI() of an unknown idBank want error")
	}
}

func TestGetSeries(t *testing.T) {
	// This is an integration test that hits the live INSEE server.
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	idBank := "001759970" // Indice des prix à la consommation
	series, err := New(nil).Series(context.Background(), idBank, realvalue.MustParseMonth("2023-01"), realvalue.MustParseMonth("2024-12"))
	if err != nil {
		t.Fatalf("Series() failed: %v", err)
	}

	if series.IDBank != idBank {
		t.Errorf("got IDBank %q, want %q", series.IDBank, idBank)
	}

	if series.Values.Len() == 0 {
		t.Error("expected to get some values, but got none")
	}
}
