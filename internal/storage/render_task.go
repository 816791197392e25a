package storage

import (
	"errors"

	"sermonclip/internal/types"

	"gorm.io/gorm"
)

func SaveTask(task *types.RenderTask) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	// Upsert keyed on TaskId: the pipeline saves the same record after
	// every step.
	var existing types.RenderTask
	result := DB.Where("task_id = ?", task.TaskId).First(&existing)

	if result.Error == nil {
		task.Id = existing.Id
		return DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(task).Error
	} else if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return DB.Create(task).Error
	}
	return result.Error
}

func GetTask(taskId string) (*types.RenderTask, error) {
	if DB == nil {
		return nil, errors.New("database not initialized")
	}
	var task types.RenderTask
	if err := DB.Preload("CaptionCues").Preload("Clips").Where("task_id = ?", taskId).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func GetTaskHistory(limit int) ([]types.RenderTask, error) {
	if DB == nil {
		return nil, errors.New("database not initialized")
	}
	var tasks []types.RenderTask
	if err := DB.Preload("CaptionCues").Preload("Clips").Order("create_time desc").Limit(limit).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ClearTaskArtifacts drops a task's caption and clip rows so a re-run
// starts from a clean slate instead of accumulating duplicates.
func ClearTaskArtifacts(taskId string) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	var task types.RenderTask
	result := DB.Where("task_id = ?", taskId).First(&task)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil
	}
	if result.Error != nil {
		return result.Error
	}
	if err := DB.Where("render_task_id = ?", task.Id).Delete(&types.CaptionCue{}).Error; err != nil {
		return err
	}
	return DB.Where("render_task_id = ?", task.Id).Delete(&types.RenderClip{}).Error
}

func DeleteTask(taskId string) error {
	if DB == nil {
		return errors.New("database not initialized")
	}
	return DB.Where("task_id = ?", taskId).Delete(&types.RenderTask{}).Error
}

// MarkStaleTasks marks tasks left in the running state by a previous process
// as failed. Called once at server startup.
func MarkStaleTasks() (int64, error) {
	if DB == nil {
		return 0, errors.New("database not initialized")
	}
	result := DB.Model(&types.RenderTask{}).
		Where("status = ?", types.RenderTaskStatusProcessing).
		Updates(map[string]interface{}{
			"status":      types.RenderTaskStatusFailed,
			"fail_reason": "task interrupted by server restart",
			"status_msg":  "Interrupted",
		})
	return result.RowsAffected, result.Error
}
