package journal

import (
	"context"
	"fmt"
	"sort"

	"github.com/Joseda-hg/lazydiary/internal/model"
	"go.opentelemetry.io/otel/attribute"
)

// GetHistoryByLineage returns every instance of the lineage ordered by page
// date.
func (e *Engine) GetHistoryByLineage(ctx context.Context, lineageID int64) ([]model.HistoryEntry, error) {
	var history []model.HistoryEntry
	err := e.run(ctx, "history", []attribute.KeyValue{attribute.Int64("lineage.id", lineageID)}, func(ctx context.Context, repo Repository) error {
		var err error
		history, err = lineageHistory(ctx, repo, lineageID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

// GetHistoryByInstance resolves the instance's lineage and returns its
// history.
func (e *Engine) GetHistoryByInstance(ctx context.Context, instanceID int64) ([]model.HistoryEntry, error) {
	var history []model.HistoryEntry
	err := e.run(ctx, "history", []attribute.KeyValue{attribute.Int64("instance.id", instanceID)}, func(ctx context.Context, repo Repository) error {
		instance, err := repo.GetInstance(ctx, instanceID)
		if err != nil {
			return err
		}
		history, err = lineageHistory(ctx, repo, instance.LineageID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return history, nil
}

func lineageHistory(ctx context.Context, repo Repository, lineageID int64) ([]model.HistoryEntry, error) {
	history, err := repo.ListHistoryByLineage(ctx, lineageID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: no task history for lineage %d", model.ErrNotFound, lineageID)
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].PageDate.Before(history[j].PageDate)
	})
	return history, nil
}
