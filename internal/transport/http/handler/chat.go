package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"docuchat/internal/ai"
	"docuchat/internal/app"
	"docuchat/internal/extract"
	"docuchat/internal/model"
	"docuchat/internal/transport/http/middleware"
	"docuchat/internal/transport/http/response"
)

const maxAttachmentSize = 10 << 20 // 10 MB per file

type ChatHandler struct {
	pipeline *app.PipelineService
}

func NewChatHandler(pipeline *app.PipelineService) *ChatHandler {
	return &ChatHandler{pipeline: pipeline}
}

// Submit accepts a multipart form with a "prompt" field and zero or more
// "files" parts, runs the pipeline, and returns the reply together with the
// updated conversation history and any generated artifact handle.
func (h *ChatHandler) Submit(c *gin.Context) {
	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "missing session")
		return
	}

	prompt := c.PostForm("prompt")

	attachments, err := readAttachments(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		return
	}

	result, err := h.pipeline.Submit(c.Request.Context(), app.SubmitInput{
		SessionID:   sessionID,
		Prompt:      prompt,
		Attachments: attachments,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrPromptEmpty), errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, ai.ErrRateLimitExceeded):
			response.Error(c, http.StatusTooManyRequests, response.CodeRateLimited, err.Error())
		case errors.Is(err, app.ErrCompletion):
			response.Error(c, http.StatusBadGateway, response.CodeCompletionFailed, err.Error())
		case errors.Is(err, extract.ErrExtraction):
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "process request failed")
		}
		return
	}

	response.OK(c, result)
}

// History returns the current session's conversation turns.
func (h *ChatHandler) History(c *gin.Context) {
	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "missing session")
		return
	}

	turns, err := h.pipeline.History(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get history failed")
		return
	}
	response.OK(c, turns)
}

// Reset clears the current session's conversation history.
func (h *ChatHandler) Reset(c *gin.Context) {
	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "missing session")
		return
	}

	if err := h.pipeline.Reset(c.Request.Context(), sessionID); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "reset history failed")
		return
	}
	response.OK(c, gin.H{"reset": true})
}

func readAttachments(c *gin.Context) ([]model.Attachment, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid multipart form: %v", err)
	}

	files := form.File["files"]
	attachments := make([]model.Attachment, 0, len(files))
	for _, file := range files {
		if file.Size > maxAttachmentSize {
			return nil, fmt.Errorf("file %q too large (max 10MB)", file.Filename)
		}
		data, err := readFileHeader(file)
		if err != nil {
			return nil, fmt.Errorf("read file %q failed: %v", file.Filename, err)
		}
		attachments = append(attachments, model.Attachment{
			Name: file.Filename,
			Kind: model.KindForFilename(file.Filename),
			Data: data,
		})
	}
	return attachments, nil
}

func readFileHeader(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
