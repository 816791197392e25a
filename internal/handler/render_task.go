package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"sermonclip/internal/dto"
	"sermonclip/internal/response"
)

func (h Handler) StartRenderTask(c *gin.Context) {
	var req dto.StartRenderTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	taskId, err := h.Service.StartRenderTask(req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.StartRenderTaskResData{TaskId: taskId})
}

func (h Handler) GetRenderTask(c *gin.Context) {
	var req dto.GetRenderTaskReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := h.Service.GetTaskStatus(req.TaskId)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, res)
}

func (h Handler) GetRenderTaskHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, err := h.Service.GetTaskHistory(limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, items)
}

func (h Handler) RetryRenderTask(c *gin.Context) {
	var req dto.RetryRenderTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	taskId, err := h.Service.RetryRenderTask(req.TaskId)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.StartRenderTaskResData{TaskId: taskId})
}

func (h Handler) DeleteRenderTask(c *gin.Context) {
	var req dto.GetRenderTaskReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.Service.DeleteTask(req.TaskId); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

func (h Handler) ExtractQuotes(c *gin.Context) {
	var req dto.ExtractQuotesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	quotes, err := h.Service.ExtractQuotes(c.Request.Context(), req.Transcript, req.MaxQuotes)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, dto.ExtractQuotesResData{Quotes: quotes})
}
