package v1

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DavidLanz/msdtools/internal/analysis"
	"github.com/DavidLanz/msdtools/internal/model"
)

// maxUploadSize 单个上传文件的上限
const maxUploadSize = 32 << 20

// errNeedTwoFiles 上传校验失败时的提示
var errNeedTwoFiles = errors.New("請一次上傳兩個 Excel 檔案")

// Compare 上传两份点击报表并直接返回对比结果
// POST /api/compare
func (h *Handler) Compare(c *gin.Context) {
	inputs, err := readUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runID, res, err := h.runner.Run(inputs, nil)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": analysis.UserMessage,
			"runId": runID,
		})
		return
	}

	c.Header("X-Run-Id", runID)
	writeArtifact(c, res.Artifact)
}

// readUploads 读取 multipart 中的 files 字段（兼容 file），要求恰好两个文件
func readUploads(c *gin.Context) ([]analysis.Input, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errNeedTwoFiles
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["file"]
	}
	if len(headers) != analysis.RequiredInputs {
		return nil, errNeedTwoFiles
	}

	inputs := make([]analysis.Input, 0, len(headers))
	for _, fh := range headers {
		data, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, analysis.Input{
			Name:   fh.Filename,
			Reader: bytes.NewReader(data),
		})
	}
	return inputs, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxUploadSize {
		return nil, fmt.Errorf("檔案過大: %s", fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("讀取上傳檔案失敗: %s", fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("讀取上傳檔案失敗: %s", fh.Filename)
	}
	if len(data) > maxUploadSize {
		return nil, fmt.Errorf("檔案過大: %s", fh.Filename)
	}
	return data, nil
}

func writeArtifact(c *gin.Context, artifact *model.Artifact) {
	c.Header("Content-Disposition", buildContentDisposition(artifact.FileName))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

// buildContentDisposition 同时提供 ASCII 文件名与 RFC 5987 编码文件名
func buildContentDisposition(fileName string) string {
	fallback := asciiFileName(fileName)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, url.PathEscape(fileName))
}

func asciiFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('_')
		case r < 0x20 || r > 0x7e:
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "comparison.xlsx"
	}
	return b.String()
}
