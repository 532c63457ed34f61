package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/lazydiary/internal/model"
	"go.opentelemetry.io/otel/attribute"
)

type MigrationResult struct {
	// InstanceID is the instance now carrying the new status.
	InstanceID int64
	Relocated  bool
}

// MigrateStatus sets the status of a task instance. Instances on today's
// page or a later one are updated in place. An instance on a past page is
// left untouched as history and the status lands on the same lineage's
// instance on today's page, which is created (along with the page) when
// missing.
func (e *Engine) MigrateStatus(ctx context.Context, instanceID int64, status string) (MigrationResult, error) {
	if strings.TrimSpace(status) == "" {
		return MigrationResult{}, fmt.Errorf("%w: status is required", model.ErrValidation)
	}

	today := e.Today()
	attrs := []attribute.KeyValue{
		attribute.Int64("instance.id", instanceID),
		attribute.String("today", model.FormatDate(today)),
	}

	var result MigrationResult
	err := e.run(ctx, "migrate", attrs, func(ctx context.Context, repo Repository) error {
		var err error
		result, err = migrateInstance(ctx, repo, instanceID, status, today)
		return err
	})
	if err != nil {
		return MigrationResult{}, err
	}

	if result.Relocated && result.InstanceID != instanceID {
		e.metrics.AddCarried("migrate", 1)
	}
	e.logger.Info("task status changed",
		"instance_id", instanceID,
		"current_instance_id", result.InstanceID,
		"status", status,
		"relocated", result.Relocated)
	return result, nil
}

// EditTask applies a form edit to an instance in one transaction. The
// status goes through the same rules as MigrateStatus and the title lands
// on whichever instance ends up carrying the status, so a past instance is
// never renamed by an edit that moves the task to today.
func (e *Engine) EditTask(ctx context.Context, instanceID int64, title, status string) (MigrationResult, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(status) == "" {
		return MigrationResult{}, fmt.Errorf("%w: title and status are required", model.ErrValidation)
	}

	today := e.Today()
	attrs := []attribute.KeyValue{
		attribute.Int64("instance.id", instanceID),
		attribute.String("today", model.FormatDate(today)),
	}

	var result MigrationResult
	err := e.run(ctx, "edit", attrs, func(ctx context.Context, repo Repository) error {
		result = MigrationResult{InstanceID: instanceID}

		current, err := repo.GetInstance(ctx, instanceID)
		if err != nil {
			return err
		}
		if current.Status != status {
			result, err = migrateInstance(ctx, repo, instanceID, status, today)
			if err != nil {
				return err
			}
		}

		target := current
		if result.InstanceID != current.ID {
			if target, err = repo.GetInstance(ctx, result.InstanceID); err != nil {
				return err
			}
		}
		if target.Title != title {
			if _, err := repo.UpdateInstanceTitle(ctx, target.ID, title); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return MigrationResult{}, err
	}

	if result.Relocated && result.InstanceID != instanceID {
		e.metrics.AddCarried("edit", 1)
	}
	e.logger.Info("task edited",
		"instance_id", instanceID,
		"current_instance_id", result.InstanceID,
		"status", status,
		"relocated", result.Relocated)
	return result, nil
}

func migrateInstance(ctx context.Context, repo Repository, instanceID int64, status string, today time.Time) (MigrationResult, error) {
	var result MigrationResult

	instance, err := repo.GetInstance(ctx, instanceID)
	if err != nil {
		return result, err
	}
	page, err := repo.GetPage(ctx, instance.PageID)
	if err != nil {
		return result, err
	}

	if !page.Date.Before(today) {
		if _, err := repo.UpdateInstanceStatus(ctx, instance.ID, status); err != nil {
			return result, err
		}
		result.InstanceID = instance.ID
		return result, nil
	}

	todayPage, _, err := ensurePage(ctx, repo, page.DiaryID, today)
	if err != nil {
		return result, err
	}
	result.Relocated = true

	current, ok, err := repo.FindInstanceByLineageOnPage(ctx, todayPage.ID, instance.LineageID)
	if err != nil {
		return result, err
	}
	if ok {
		if _, err := repo.UpdateInstanceStatus(ctx, current.ID, status); err != nil {
			return result, err
		}
		result.InstanceID = current.ID
		return result, nil
	}

	created, err := repo.CreateInstance(ctx, model.TaskInstance{
		PageID:    todayPage.ID,
		LineageID: instance.LineageID,
		Title:     instance.Title,
		Status:    status,
	})
	if err != nil {
		return result, err
	}
	result.InstanceID = created.ID
	return result, nil
}
