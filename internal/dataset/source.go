package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/charmap"

	"github.com/haldies/olist-dashboard/internal/logger"
)

// DatasetURL is the remote fallback for the cleaned order-line table.
var DatasetURL = "https://raw.githubusercontent.com/haldies/tugas-dicoding-data-analisis/refs/heads/main/dashboard/all_data_cleaned.csv"

const (
	dashboardLocalPath = "dashboard/all_data_cleaned.csv"
	workingDirPath     = "all_data_cleaned.csv"
)

// ErrNoData signals that every candidate source failed. Callers present this
// as an empty dashboard state rather than a fault.
var ErrNoData = errors.New("no data available from any source")

// Source produces the raw order-line table. Each candidate is tried once;
// a failure advances the chain to the next source.
type Source interface {
	Name() string
	Fetch() (dataframe.DataFrame, error)
}

type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Fetch() (dataframe.DataFrame, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read file %s: %w", s.Path, err)
	}
	return FromCSV(raw)
}

type URLSource struct {
	URL    string
	Client *http.Client
}

func (s URLSource) Name() string { return "url:" + s.URL }

func (s URLSource) Fetch() (dataframe.DataFrame, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	req, err := http.NewRequest(http.MethodGet, s.URL, nil)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Add("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3")

	resp, err := client.Do(req)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return dataframe.DataFrame{}, fmt.Errorf("non-OK HTTP response: %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read response body: %w", err)
	}
	return FromCSV(raw)
}

// DefaultSources is the fixed resolution order: dashboard-local file,
// working-directory file, remote URL.
func DefaultSources() []Source {
	return []Source{
		FileSource{Path: dashboardLocalPath},
		FileSource{Path: workingDirPath},
		URLSource{URL: DatasetURL},
	}
}

// FromCSV decodes a comma-separated order-line table. Legacy exports of the
// dataset are Windows-1252 encoded, so input that is not valid UTF-8 falls
// back to that charset.
func FromCSV(raw []byte) (dataframe.DataFrame, error) {
	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		r = charmap.Windows1252.NewDecoder().Reader(r)
	}

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.WithDelimiter(','),
		dataframe.WithLazyQuotes(true),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(map[string]series.Type{
			ColPrice:        series.Float,
			ColFreightValue: series.Float,
			ColPaymentValue: series.Float,
			ColReviewScore:  series.Float,
		}),
	)
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to decode CSV: %v", df.Error())
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("dataframe is empty")
	}
	return df, nil
}

// Result is a successfully loaded table plus where it came from.
type Result struct {
	Frame    dataframe.DataFrame
	Source   string
	LoadedAt time.Time
}

// LoadChain tries each source in order and returns the first table that
// decodes and derives cleanly. Exhausting every source yields ErrNoData.
func LoadChain(sources []Source, appLogger *logger.Logger) (Result, error) {
	const component = "DatasetLoader"

	for _, src := range sources {
		appLogger.Debug(component, "Attempting data source: %s", src.Name())

		df, err := src.Fetch()
		if err != nil {
			appLogger.Warn(component, "Source failed: source=%s error=%v", src.Name(), err)
			continue
		}

		df, err = WithCalendar(df)
		if err != nil {
			appLogger.Warn(component, "Calendar derivation failed: source=%s error=%v", src.Name(), err)
			continue
		}

		appLogger.Info(component, "Dataset loaded: source=%s rows=%d", src.Name(), df.Nrow())
		return Result{Frame: df, Source: src.Name(), LoadedAt: time.Now()}, nil
	}

	return Result{}, fmt.Errorf("exhausted %d data sources: %w", len(sources), ErrNoData)
}
