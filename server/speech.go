package server

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/longreader/audio"
	"github.com/kbukum/longreader/errors"
	"github.com/kbukum/longreader/logger"
	"github.com/kbukum/longreader/longread"
	"github.com/kbukum/longreader/validation"
)

// SpeechPath is the synthesis route.
const SpeechPath = "/v1/speech"

// HeaderRunID carries the orchestration run id on synthesis responses.
const HeaderRunID = "X-Run-Id"

// Reader produces audio for a text.
type Reader interface {
	Read(ctx context.Context, text, voice string) (*longread.Result, error)
}

// SpeechRequest is the body of POST /v1/speech.
type SpeechRequest struct {
	Text  string `json:"text" validate:"required"`
	Voice string `json:"voice" validate:"omitempty,voice"`
}

// RegisterSpeech mounts the synthesis route on r.
func RegisterSpeech(r gin.IRoutes, reader Reader, log *logger.Logger) {
	h := &speechHandler{reader: reader, log: log.WithComponent("api")}
	r.POST(SpeechPath, h.synthesize)
}

type speechHandler struct {
	reader Reader
	log    *logger.Logger
}

func (h *speechHandler) synthesize(c *gin.Context) {
	var req SpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}
	if err := validation.Validate(req); err != nil {
		RespondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	res, err := h.reader.Read(ctx, req.Text, req.Voice)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	var wav bytes.Buffer
	if err := audio.WriteWAV(&wav, res.Samples, res.SampleRate); err != nil {
		RespondWithError(c, errors.Encoding("wav", err))
		return
	}

	h.log.WithContext(ctx).Info("speech served", logger.Fields(
		logger.FieldRunID, res.RunID,
		"chunks", res.Chunks,
		"audio_seconds", res.AudioSeconds(),
		"bytes", wav.Len(),
	))
	c.Header(HeaderRunID, res.RunID)
	c.Header("X-Audio-Seconds", strconv.FormatFloat(res.AudioSeconds(), 'f', 2, 64))
	c.Data(http.StatusOK, "audio/wav", wav.Bytes())
}
