package handler

import (
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/blake2b"

	"docuchat/internal/artifact"
	"docuchat/internal/transport/http/response"
)

type ArtifactHandler struct {
	store *artifact.Store
}

func NewArtifactHandler(store *artifact.Store) *ArtifactHandler {
	return &ArtifactHandler{store: store}
}

// Download serves a previously generated artifact by name. Retrieval is
// stateless and repeatable: the same name returns byte-identical content
// until the artifact is removed.
func (h *ArtifactHandler) Download(c *gin.Context) {
	name := c.Param("name")

	data, contentType, err := h.store.Open(name)
	if err != nil {
		switch {
		case errors.Is(err, artifact.ErrInvalidName):
			response.Error(c, http.StatusBadRequest, response.CodeInvalidName, err.Error())
		case errors.Is(err, artifact.ErrNotFound):
			response.Error(c, http.StatusNotFound, response.CodeArtifactNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "read artifact failed")
		}
		return
	}

	digest := blake2b.Sum256(data)
	c.Header("ETag", `"`+hex.EncodeToString(digest[:])+`"`)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, contentType, data)
}
