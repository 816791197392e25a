package types

// Render task status values persisted in storage.
const (
	RenderTaskStatusProcessing int8 = 1
	RenderTaskStatusSuccess    int8 = 2
	RenderTaskStatusFailed     int8 = 3
)

// Well-known file names inside a task's render directory.
const (
	NarrationAudioFileName  = "narration.wav"
	CaptionTimelineFileName = "captions.json"
	ManifestFileName        = "manifest.json"
)

// RenderTask is the persisted record of one quote-to-video generation request.
type RenderTask struct {
	Id         int64  `json:"-" gorm:"primaryKey;autoIncrement"`
	TaskId     string `json:"task_id" gorm:"uniqueIndex;size:64"`
	Status     int8   `json:"status"`
	StatusMsg  string `json:"status_msg"`
	FailReason string `json:"fail_reason"`
	ProcessPct uint8  `json:"process_percent"`

	Quote     string `json:"quote" gorm:"type:text"`
	VoiceCode string `json:"voice_code"`
	ThemeCode string `json:"theme_code"`
	MoodCode  string `json:"mood_code"`
	Format    string `json:"format"`

	NarrationDuration float64 `json:"narration_duration"`
	AudioPath         string  `json:"audio_path"`
	ManifestPath      string  `json:"manifest_path"`

	CaptionCues []CaptionCue `json:"caption_cues" gorm:"foreignKey:RenderTaskId;references:Id;constraint:OnDelete:CASCADE"`
	Clips       []RenderClip `json:"clips" gorm:"foreignKey:RenderTaskId;references:Id;constraint:OnDelete:CASCADE"`

	CreateTime int64 `json:"create_time" gorm:"autoCreateTime"`
	UpdateTime int64 `json:"update_time" gorm:"autoUpdateTime"`
}

// CaptionCue is one caption segment row belonging to a render task.
type CaptionCue struct {
	Id           int64   `json:"-" gorm:"primaryKey;autoIncrement"`
	RenderTaskId int64   `json:"-" gorm:"index"`
	Idx          int     `json:"idx"`
	Text         string  `json:"text"`
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
}

// RenderClip is one generated scene clip belonging to a render task.
type RenderClip struct {
	Id           int64  `json:"-" gorm:"primaryKey;autoIncrement"`
	RenderTaskId int64  `json:"-" gorm:"index"`
	Idx          int    `json:"idx"`
	ScenePrompt  string `json:"scene_prompt" gorm:"type:text"`
	FilePath     string `json:"file_path"`
	DownloadUrl  string `json:"download_url"`
}
