package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/app"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/model"
	"github.com/techtreeDARYL/ReallyAvatar-Dashboard-BE/internal/transport/http/response"
)

type FileHandler struct {
	fileService *app.FileService
}

func NewFileHandler(fileService *app.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload accepts a multipart batch under the "files" field and returns 202
// with a batch id once the indexing job is durable. Indexing progress is
// polled via UploadStatus.
func (h *FileHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid multipart payload")
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no files in upload")
		return
	}

	items := make([]app.UploadItem, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		opened, err := header.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "unreadable upload: "+header.Filename)
			return
		}
		data, err := io.ReadAll(opened)
		_ = opened.Close()
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "unreadable upload: "+header.Filename)
			return
		}
		items = append(items, app.UploadItem{Name: header.Filename, Data: data})
	}

	result, err := h.fileService.Upload(c.Request.Context(), c.Param("asstId"), items)
	if err != nil {
		respondServiceError(c, err, "accept upload failed")
		return
	}
	response.Accepted(c, gin.H{
		"batch_id": result.BatchID,
		"files":    result.Files,
	})
}

func (h *FileHandler) UploadStatus(c *gin.Context) {
	files, err := h.fileService.UploadStatus(c.Param("batchId"))
	if err != nil {
		respondServiceError(c, err, "query upload status failed")
		return
	}

	done := true
	failed := 0
	for _, file := range files {
		if file.Status == model.FileStatusPending {
			done = false
		}
		if file.Status == model.FileStatusFailed {
			failed++
		}
	}
	response.OK(c, gin.H{
		"done":   done,
		"failed": failed,
		"files":  files,
	})
}

func (h *FileHandler) List(c *gin.Context) {
	files, err := h.fileService.ListByAsstID(c.Param("asstId"))
	if err != nil {
		respondServiceError(c, err, "list files failed")
		return
	}
	if files == nil {
		files = []model.File{}
	}
	response.OK(c, gin.H{"files": files})
}

func (h *FileHandler) ListIndexed(c *gin.Context) {
	files, err := h.fileService.ListIndexed(c.Param("assistantId"))
	if err != nil {
		respondServiceError(c, err, "list assistant files failed")
		return
	}
	if files == nil {
		files = []model.AssistantFile{}
	}
	response.OK(c, gin.H{"files": files})
}

func (h *FileHandler) Delete(c *gin.Context) {
	fileID, err := strconv.ParseUint(c.Param("fileId"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid file id")
		return
	}

	if err := h.fileService.Delete(c.Request.Context(), uint(fileID)); err != nil {
		respondServiceError(c, err, "delete file failed")
		return
	}
	response.OK(c, gin.H{"message": "file deleted"})
}

func (h *FileHandler) Download(c *gin.Context) {
	path, err := h.fileService.ResolveDownloadPath(c.Param("fileName"))
	if err != nil {
		respondServiceError(c, err, "download failed")
		return
	}
	// Content-Disposition carries the sanitized name, never the raw param.
	c.FileAttachment(path, filepath.Base(path))
}
