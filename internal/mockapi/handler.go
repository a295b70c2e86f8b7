// Package mockapi is a development backend that serves the portal's REST
// contract from an in-memory store.
package mockapi

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/middleware"
	"github.com/yigit/collegeportal/internal/mockapi/store"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"github.com/yigit/collegeportal/internal/pkg/auth"
	"github.com/yigit/collegeportal/internal/pkg/filestorage"
)

// Handler serves every endpoint
type Handler struct {
	store  *store.Store
	jwt    *auth.JWTService
	files  filestorage.FileStorage
	logger zerolog.Logger
}

// NewHandler creates a Handler
func NewHandler(st *store.Store, jwtService *auth.JWTService, files filestorage.FileStorage, logger zerolog.Logger) *Handler {
	return &Handler{
		store:  st,
		jwt:    jwtService,
		files:  files,
		logger: logger,
	}
}

// removeUploads deletes the stored files of removed submissions. Failures are
// logged only; the records are already gone.
func (h *Handler) removeUploads(fileURLs []string) {
	for _, u := range fileURLs {
		if err := h.files.Delete(u); err != nil {
			h.logger.Warn().Err(err).Str("fileURL", u).Msg("Failed to remove submission upload")
		}
	}
}

// pathID parses a positive numeric path parameter, answering 400 otherwise
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrBadRequest, "Invalid "+name))
		return 0, false
	}
	return id, true
}
