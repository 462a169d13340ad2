package assethdl

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v3"

	"media_scheduler/internal/api/asset"
	basehdl "media_scheduler/internal/api/base/handler"
	"media_scheduler/internal/common"
)

// Giới hạn kích thước asset upload (byte)
const maxAssetSize = 50 << 20 // 50MB

// AssetHandler xử lý upload/xóa media asset
type AssetHandler struct {
	*basehdl.BaseHandler[interface{}, interface{}, interface{}]
	Store asset.Store
}

// NewAssetHandler tạo mới AssetHandler với store được cung cấp
func NewAssetHandler(store asset.Store) (*AssetHandler, error) {
	if store == nil {
		return nil, fmt.Errorf("asset store chưa được khởi tạo")
	}
	return &AssetHandler{
		BaseHandler: &basehdl.BaseHandler[interface{}, interface{}, interface{}]{},
		Store:       store,
	}, nil
}

// Upload nhận file qua multipart form (field "file") và đẩy lên object store.
// Trả về locator công khai + object key để client gắn vào content item.
func (h *AssetHandler) Upload(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				"Request phải là multipart form với field 'file'",
				common.StatusBadRequest,
				err,
			))
			return nil
		}

		if fileHeader.Size > maxAssetSize {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				fmt.Sprintf("File vượt quá kích thước cho phép (%d byte)", maxAssetSize),
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		file, err := fileHeader.Open()
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeStorageUpload,
				"Không đọc được file upload",
				common.StatusInternalServerError,
				err,
			))
			return nil
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeStorageUpload,
				"Không đọc được file upload",
				common.StatusInternalServerError,
				err,
			))
			return nil
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		publicURL, key, err := h.Store.Upload(c.Context(), data, fileHeader.Filename, contentType)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, fiber.Map{
			"url": publicURL,
			"key": key,
		}, nil)
		return nil
	})
}

// Delete xóa asset theo key (query param "key"). Key không tồn tại vẫn trả thành công.
func (h *AssetHandler) Delete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		key := c.Query("key")
		if key == "" {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Thiếu query param 'key'",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		err := h.Store.Delete(c.Context(), key)
		h.HandleResponse(c, nil, err)
		return nil
	})
}
