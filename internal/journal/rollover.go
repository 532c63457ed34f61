package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Joseda-hg/lazydiary/internal/model"
	"go.opentelemetry.io/otel/attribute"
)

type RolloverResult struct {
	Page model.Page
	// Carried is the number of task instances cloned onto Page.
	Carried int
	// SourceDate is the date the tasks were carried from, nil for the
	// first page of a diary.
	SourceDate *time.Time
}

// CreatePageWithRollover creates the page for (diaryID, date) and clones
// every open task instance of the most recent earlier page onto it, keeping
// each instance's lineage, title and status.
func (e *Engine) CreatePageWithRollover(ctx context.Context, diaryID int64, date time.Time) (RolloverResult, error) {
	target := model.DateOf(date)
	attrs := []attribute.KeyValue{
		attribute.Int64("diary.id", diaryID),
		attribute.String("page.date", model.FormatDate(target)),
	}

	var result RolloverResult
	err := e.run(ctx, "rollover", attrs, func(ctx context.Context, repo Repository) error {
		result = RolloverResult{}

		if _, err := repo.GetDiary(ctx, diaryID); err != nil {
			return err
		}

		_, err := repo.GetPageByDate(ctx, diaryID, target)
		if err == nil {
			return fmt.Errorf("%w: diary %d already has a page on %s", model.ErrConflict, diaryID, model.FormatDate(target))
		}
		if !errors.Is(err, model.ErrNotFound) {
			return err
		}

		page, err := repo.CreatePage(ctx, diaryID, target)
		if err != nil {
			return err
		}
		result.Page = page

		sourceDate, ok, err := repo.LatestPageDateBefore(ctx, diaryID, target)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		result.SourceDate = &sourceDate

		carried, err := carryOpenInstances(ctx, repo, diaryID, sourceDate, page.ID)
		if err != nil {
			return err
		}
		result.Carried = carried
		return nil
	})
	if err != nil {
		return RolloverResult{}, err
	}

	e.metrics.AddCarried("rollover", result.Carried)
	e.logger.Info("page created",
		"diary_id", diaryID,
		"page_id", result.Page.ID,
		"date", model.FormatDate(target),
		"carried", result.Carried)
	return result, nil
}

// carryOpenInstances clones the open instances of every page the diary has
// on sourceDate onto the page targetPageID. The date, not a single row, is
// the carry source.
func carryOpenInstances(ctx context.Context, repo Repository, diaryID int64, sourceDate time.Time, targetPageID int64) (int, error) {
	sources, err := repo.ListPagesOnDate(ctx, diaryID, sourceDate)
	if err != nil {
		return 0, err
	}

	carried := 0
	for _, source := range sources {
		open, err := repo.ListOpenInstancesByPage(ctx, source.ID)
		if err != nil {
			return 0, err
		}
		for _, instance := range open {
			if _, err := repo.CreateInstance(ctx, model.TaskInstance{
				PageID:    targetPageID,
				LineageID: instance.LineageID,
				Title:     instance.Title,
				Status:    instance.Status,
			}); err != nil {
				return 0, err
			}
			carried++
		}
	}
	return carried, nil
}
