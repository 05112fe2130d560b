// Package export renders an edition's schedule as CSV for line-up sheets
// and spreadsheet imports.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	schedulingdomain "github.com/sqlservernerd/festguide/internal/scheduling/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var csvHeader = []string{"stage", "title", "artist", "start_utc", "end_utc"}

type Exporter struct {
	scheduling schedulingdomain.Service
	log        *zap.Logger
}

func NewExporter(scheduling schedulingdomain.Service, log *zap.Logger) *Exporter {
	return &Exporter{
		scheduling: scheduling,
		log:        log.Named("export"),
	}
}

// EditionCSV renders the edition's schedule, ordered the way the schedule
// view returns it (stage, then start time). Slots without an engagement
// render with an empty artist column. Rendering into memory lets callers
// map a fetch failure to an error response before any bytes go out.
func (e *Exporter) EditionCSV(ctx context.Context, editionID snowflake.ID) ([]byte, error) {
	lines, err := e.scheduling.EditionSchedule(ctx, editionID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := writeLines(&buf, lines); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteEditionCSV streams the edition's schedule to w.
func (e *Exporter) WriteEditionCSV(ctx context.Context, w io.Writer, editionID snowflake.ID) error {
	data, err := e.EditionCSV(ctx, editionID)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func writeLines(w io.Writer, lines []schedulingdomain.ScheduleLine) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, line := range lines {
		artist := ""
		if line.ArtistID != 0 {
			artist = line.ArtistName
		}
		record := []string{
			line.StageName,
			line.Title,
			artist,
			line.StartUTC.UTC().Format(time.RFC3339),
			line.EndUTC.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var Module = fx.Module("export",
	fx.Provide(NewExporter),
)
