// ABOUTME: Runs the full ingestion pipeline over the two uploaded exports.
// ABOUTME: Ingest -> clean -> join -> enrich, logging row counts per stage.
package pipeline

import (
	"io"

	"github.com/harperreed/sleepdash/internal/ingest"
	"github.com/harperreed/sleepdash/internal/models"
	"go.uber.org/zap"
)

// Run reads both exports and returns the enriched nights in sleeps.csv order.
// Any schema or parse error aborts the run; nothing partial is returned.
func Run(sleepsCSV, cyclesCSV io.Reader, log *zap.Logger) ([]models.EnrichedRecord, error) {
	if log == nil {
		log = zap.NewNop()
	}

	sleeps, err := ingest.ReadSleeps(sleepsCSV)
	if err != nil {
		return nil, err
	}
	log.Debug("stage complete", zap.String("stage", "read_sleeps"), zap.Int("rows_out", len(sleeps)))

	cycles, err := ingest.ReadCycles(cyclesCSV)
	if err != nil {
		return nil, err
	}
	log.Debug("stage complete", zap.String("stage", "read_cycles"), zap.Int("rows_out", len(cycles)))

	withDuration := DropMissingDuration(sleeps)
	log.Debug("stage complete", zap.String("stage", "drop_missing_duration"),
		zap.Int("rows_in", len(sleeps)), zap.Int("rows_out", len(withDuration)))

	nights := DropNaps(withDuration)
	log.Debug("stage complete", zap.String("stage", "drop_naps"),
		zap.Int("rows_in", len(withDuration)), zap.Int("rows_out", len(nights)))

	joined := Join(nights, cycles)
	matched := 0
	for _, j := range joined {
		if j.Cycle != nil {
			matched++
		}
	}
	log.Debug("stage complete", zap.String("stage", "join"),
		zap.Int("rows_in", len(nights)), zap.Int("rows_out", len(joined)), zap.Int("matched", matched))

	enriched, err := Enrich(joined)
	if err != nil {
		return nil, err
	}
	log.Debug("stage complete", zap.String("stage", "enrich"), zap.Int("rows_out", len(enriched)))

	return enriched, nil
}
