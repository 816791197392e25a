package handler

import (
	"github.com/gin-gonic/gin"

	"sermonclip/internal/dto"
	"sermonclip/internal/response"
	"sermonclip/internal/wizard"
)

func (h Handler) CreateWizardSession(c *gin.Context) {
	var req dto.CreateWizardSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.Wizard.CreateSession(c.Request.Context(), req.Transcript)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, wizardState(result))
}

func (h Handler) WizardMessage(c *gin.Context) {
	sessionId := c.Param("sessionId")

	var req dto.WizardMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.Wizard.Handle(c.Request.Context(), sessionId, req.Text)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if result.ReadyToRender {
		taskId, startErr := h.Service.StartRenderTask(renderReqFor(result.Session))
		if startErr != nil {
			response.FromError(c, startErr)
			return
		}
		h.Wizard.BindTask(sessionId, taskId)
		if session, getErr := h.Wizard.GetSession(sessionId); getErr == nil {
			result.Session = session
		}
	}
	response.Success(c, wizardState(result))
}

func (h Handler) GetWizardSession(c *gin.Context) {
	session, err := h.Wizard.GetSession(c.Param("sessionId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, wizardState(&wizard.Result{Session: session}))
}

func renderReqFor(session *wizard.Session) dto.StartRenderTaskReq {
	return dto.StartRenderTaskReq{
		Quote:     session.Selections[wizard.SelQuote],
		VoiceCode: session.Selections[wizard.SelVoice],
		ThemeCode: session.Selections[wizard.SelTheme],
		MoodCode:  session.Selections[wizard.SelMood],
		Format:    session.Selections[wizard.SelFormat],
	}
}

func wizardState(result *wizard.Result) dto.WizardStateResData {
	return dto.WizardStateResData{
		SessionId:  result.Session.Id,
		Step:       result.Session.Step,
		Reply:      result.Reply,
		Options:    result.Options,
		Quotes:     result.Session.Quotes,
		Selections: result.Session.Selections,
		TaskId:     result.Session.TaskId,
	}
}
