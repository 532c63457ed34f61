package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Joseda-hg/lazydiary/internal/model"
	"go.opentelemetry.io/otel/attribute"
)

type CopyResult struct {
	Copied        int
	TargetPageID  int64
	TargetCreated bool
	// NothingToCopy is set when the source page has no open tasks.
	NothingToCopy bool
}

type taskKey struct {
	title  string
	status string
}

// CopyOpenTasks copies the open task instances of the diary's page on
// sourceDate onto its page on targetDate, creating the target page when
// needed. A candidate is skipped when the target already holds an instance
// with the same title and status, whatever its lineage.
func (e *Engine) CopyOpenTasks(ctx context.Context, diaryID int64, sourceDate, targetDate time.Time) (CopyResult, error) {
	source := model.DateOf(sourceDate)
	target := model.DateOf(targetDate)
	attrs := []attribute.KeyValue{
		attribute.Int64("diary.id", diaryID),
		attribute.String("source.date", model.FormatDate(source)),
		attribute.String("target.date", model.FormatDate(target)),
	}

	var result CopyResult
	err := e.run(ctx, "copy", attrs, func(ctx context.Context, repo Repository) error {
		result = CopyResult{}

		sourcePage, err := repo.GetPageByDate(ctx, diaryID, source)
		if err != nil {
			return fmt.Errorf("source page %s: %w", model.FormatDate(source), err)
		}

		targetPage, created, err := ensurePage(ctx, repo, diaryID, target)
		if err != nil {
			return err
		}
		result.TargetPageID = targetPage.ID
		result.TargetCreated = created

		candidates, err := repo.ListOpenInstancesByPage(ctx, sourcePage.ID)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			result.NothingToCopy = true
			return nil
		}

		existing, err := repo.ListInstancesByPage(ctx, targetPage.ID)
		if err != nil {
			return err
		}
		seen := make(map[taskKey]struct{}, len(existing)+len(candidates))
		for _, instance := range existing {
			seen[taskKey{instance.Title, instance.Status}] = struct{}{}
		}

		for _, candidate := range candidates {
			key := taskKey{candidate.Title, candidate.Status}
			if _, ok := seen[key]; ok {
				continue
			}
			if _, err := repo.CreateInstance(ctx, model.TaskInstance{
				PageID:    targetPage.ID,
				LineageID: candidate.LineageID,
				Title:     candidate.Title,
				Status:    candidate.Status,
			}); err != nil {
				return err
			}
			seen[key] = struct{}{}
			result.Copied++
		}
		return nil
	})
	if err != nil {
		return CopyResult{}, err
	}

	e.metrics.AddCarried("copy", result.Copied)
	e.logger.Info("open tasks copied",
		"diary_id", diaryID,
		"source", model.FormatDate(source),
		"target", model.FormatDate(target),
		"copied", result.Copied,
		"target_created", result.TargetCreated)
	return result, nil
}

// ensurePage returns the diary's page on date, creating it when absent.
func ensurePage(ctx context.Context, repo Repository, diaryID int64, date time.Time) (model.Page, bool, error) {
	page, err := repo.GetPageByDate(ctx, diaryID, date)
	if err == nil {
		return page, false, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Page{}, false, err
	}

	page, err = repo.CreatePage(ctx, diaryID, date)
	if err != nil {
		return model.Page{}, false, err
	}
	return page, true, nil
}
