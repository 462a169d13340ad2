package importerhdl

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"media_scheduler/internal/api/asset"
	basehdl "media_scheduler/internal/api/base/handler"
	importermodels "media_scheduler/internal/api/importer/models"
	importersvc "media_scheduler/internal/api/importer/service"
	"media_scheduler/internal/common"
	"media_scheduler/internal/logger"
	"media_scheduler/internal/utility"
)

// Giới hạn kích thước file feed CSV (byte)
const maxFeedSize = 10 << 20 // 10MB

// ImportHandler xử lý import/export CSV feed
type ImportHandler struct {
	*basehdl.BaseHandler[importermodels.ImportBatch, interface{}, interface{}]
	ImportService *importersvc.ImportService
}

// NewImportHandler tạo mới ImportHandler
func NewImportHandler(store asset.Store) (*ImportHandler, error) {
	service, err := importersvc.NewImportService(store)
	if err != nil {
		return nil, fmt.Errorf("failed to create import service: %v", err)
	}
	return &ImportHandler{
		BaseHandler:   basehdl.NewBaseHandler[importermodels.ImportBatch, interface{}, interface{}](service),
		ImportService: service,
	}, nil
}

// readFormFile đọc toàn bộ nội dung một file trong multipart form
func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// Preview nhận multipart form: field "feed" là file CSV, field "images" là các file ảnh
// đi kèm. Parse + resolve ảnh rồi lưu batch ở trạng thái preview, trả về báo cáo.
func (h *ImportHandler) Preview(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		form, err := c.MultipartForm()
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				"Request phải là multipart form",
				common.StatusBadRequest,
				err,
			))
			return nil
		}

		feedHeaders := form.File["feed"]
		if len(feedHeaders) == 0 {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Thiếu file CSV ở field 'feed'",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}
		if feedHeaders[0].Size > maxFeedSize {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("File feed vượt quá kích thước cho phép (%d byte)", maxFeedSize),
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		csvData, err := readFormFile(feedHeaders[0])
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				"Không đọc được file feed",
				common.StatusBadRequest,
				err,
			))
			return nil
		}

		// Ảnh đi kèm được map theo đúng tên file gốc
		files := make(map[string][]byte)
		for _, header := range form.File["images"] {
			data, err := readFormFile(header)
			if err != nil {
				h.HandleResponse(c, nil, common.NewError(
					common.ErrCodeValidationFormat,
					fmt.Sprintf("Không đọc được file ảnh '%s'", header.Filename),
					common.StatusBadRequest,
					err,
				))
				return nil
			}
			files[header.Filename] = data
		}

		batch, err := h.ImportService.Preview(c.Context(), csvData, files)
		h.HandleResponse(c, batch, err)
		return nil
	})
}

// Commit ghi batch preview vào content_items
func (h *ImportHandler) Commit(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := c.Params("id")
		if id == "" || !primitive.IsValidObjectID(id) {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("ID '%s' không đúng định dạng MongoDB ObjectID", id),
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		count, err := h.ImportService.Commit(c.Context(), utility.String2ObjectID(id))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		logger.LogAction("import_commit", c, map[string]interface{}{
			"batch_id":      id,
			"insertedCount": count,
		})
		h.HandleResponse(c, fiber.Map{"insertedCount": count}, nil)
		return nil
	})
}

// Export trả về toàn bộ content items dưới dạng file CSV cùng shape với feed import
func (h *ImportHandler) Export(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		data, err := h.ImportService.ExportCSV(c.Context())
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		c.Set("Content-Type", "text/csv; charset=utf-8")
		c.Set("Content-Disposition", `attachment; filename="content_items.csv"`)
		return c.Send(data)
	})
}
