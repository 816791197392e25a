package dto

// StartRenderTaskReq kicks off a quote-to-video generation.
type StartRenderTaskReq struct {
	Quote     string `json:"quote" binding:"required"`
	VoiceCode string `json:"voice_code"`
	ThemeCode string `json:"theme_code"`
	MoodCode  string `json:"mood_code"`
	Format    string `json:"format"`
	// ReuseTaskId re-runs an existing task under its original id (retry).
	ReuseTaskId string `json:"reuse_task_id,omitempty"`
}

type StartRenderTaskResData struct {
	TaskId string `json:"task_id"`
}

type GetRenderTaskReq struct {
	TaskId string `form:"taskId" binding:"required"`
}

// RetryRenderTaskReq re-runs an existing task with its stored settings.
type RetryRenderTaskReq struct {
	TaskId string `json:"task_id" binding:"required"`
}

type CaptionCueInfo struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type ClipInfo struct {
	Idx         int    `json:"idx"`
	ScenePrompt string `json:"scene_prompt"`
	DownloadUrl string `json:"download_url"`
}

type GetRenderTaskResData struct {
	TaskId            string           `json:"task_id"`
	Status            int8             `json:"status"`
	StatusMsg         string           `json:"status_msg"`
	ProcessPercent    uint8            `json:"process_percent"`
	Quote             string           `json:"quote"`
	NarrationDuration float64          `json:"narration_duration"`
	AudioDownloadUrl  string           `json:"audio_download_url,omitempty"`
	ManifestUrl       string           `json:"manifest_url,omitempty"`
	Captions          []CaptionCueInfo `json:"captions,omitempty"`
	Clips             []ClipInfo       `json:"clips,omitempty"`
}

// ExtractQuotesReq runs quote extraction over a pasted or uploaded transcript.
type ExtractQuotesReq struct {
	Transcript string `json:"transcript" binding:"required"`
	MaxQuotes  int    `json:"max_quotes"`
}

type ExtractQuotesResData struct {
	Quotes []string `json:"quotes"`
}

type UploadTranscriptResData struct {
	FileName   string `json:"file_name"`
	Transcript string `json:"transcript"`
}
