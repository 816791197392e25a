package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sermonclip/internal/appdirs"
	"sermonclip/internal/dto"
	"sermonclip/internal/response"
)

const maxTranscriptBytes = 2 << 20

// DownloadFile serves one artifact out of a task's render directory.
func (h Handler) DownloadFile(c *gin.Context) {
	taskId := c.Param("taskId")
	fileName := c.Param("fileName")

	// Both segments must be bare names, no traversal.
	if !isSafeName(taskId) || !isSafeName(fileName) {
		response.BadRequest(c, "invalid file path")
		return
	}

	renderDir, err := appdirs.ResolveRenderDir(taskId)
	if err != nil {
		response.FromError(c, err)
		return
	}
	path := filepath.Join(renderDir, fileName)
	if _, err = os.Stat(path); err != nil {
		response.BadRequest(c, "file not found")
		return
	}
	c.FileAttachment(path, fileName)
}

// UploadTranscript accepts a plain text transcript file and returns its
// contents for the wizard or quote extraction.
func (h Handler) UploadTranscript(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing transcript file")
		return
	}
	if file.Size > maxTranscriptBytes {
		response.BadRequest(c, "transcript file too large")
		return
	}

	uploadRoot, err := appdirs.ResolveUploadRoot()
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err = os.MkdirAll(uploadRoot, 0o755); err != nil {
		response.FromError(c, err)
		return
	}

	savedName := fmt.Sprintf("%s_%s", uuid.NewString()[:8], filepath.Base(file.Filename))
	savedPath := filepath.Join(uploadRoot, savedName)
	if err = c.SaveUploadedFile(file, savedPath); err != nil {
		response.FromError(c, err)
		return
	}

	content, err := os.ReadFile(savedPath)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.UploadTranscriptResData{
		FileName:   savedName,
		Transcript: string(content),
	})
}

func isSafeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
