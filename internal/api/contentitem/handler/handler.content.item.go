package contentitemhdl

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "media_scheduler/internal/api/base/handler"
	contentitemdto "media_scheduler/internal/api/contentitem/dto"
	contentitemmodels "media_scheduler/internal/api/contentitem/models"
	contentitemsvc "media_scheduler/internal/api/contentitem/service"
	"media_scheduler/internal/common"
	"media_scheduler/internal/logger"
	"media_scheduler/internal/utility"
)

// ContentItemHandler xử lý các request liên quan đến Content Item
type ContentItemHandler struct {
	*basehdl.BaseHandler[contentitemmodels.ContentItem, contentitemdto.ContentItemCreateInput, contentitemdto.ContentItemUpdateInput]
	ContentItemService *contentitemsvc.ContentItemService
}

// NewContentItemHandler tạo mới ContentItemHandler
func NewContentItemHandler() (*ContentItemHandler, error) {
	contentItemService, err := contentitemsvc.NewContentItemService()
	if err != nil {
		return nil, fmt.Errorf("failed to create content item service: %v", err)
	}
	hdl := &ContentItemHandler{
		ContentItemService: contentItemService,
	}
	hdl.BaseHandler = basehdl.NewBaseHandler[contentitemmodels.ContentItem, contentitemdto.ContentItemCreateInput, contentitemdto.ContentItemUpdateInput](contentItemService.BaseServiceMongoImpl)
	return hdl, nil
}

// parseItemID lấy và validate ObjectID từ URI params
func (h *ContentItemHandler) parseItemID(c fiber.Ctx) (primitive.ObjectID, error) {
	id := c.Params("id")
	if id == "" || !primitive.IsValidObjectID(id) {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("ID '%s' không đúng định dạng MongoDB ObjectID", id),
			common.StatusBadRequest,
			nil,
		)
	}
	return utility.String2ObjectID(id), nil
}

// toModel chuyển CreateInput thành model với enum đã parse
func toModel(input *contentitemdto.ContentItemCreateInput) contentitemmodels.ContentItem {
	targets := make([]contentitemmodels.Channel, 0, len(input.Targets))
	for _, raw := range input.Targets {
		targets = append(targets, contentitemmodels.Channel(raw))
	}
	return contentitemmodels.ContentItem{
		Body:           input.Body,
		Targets:        targets,
		ActivationTime: input.ActivationTime,
		Status:         contentitemmodels.Status(input.Status),
		AssetURL:       input.AssetURL,
		AssetKey:       input.AssetKey,
	}
}

// Create tạo mới content item với validate qua state machine.
// Khác với InsertOne của base CRUD, endpoint này enforce các ràng buộc vòng đời.
func (h *ContentItemHandler) Create(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input contentitemdto.ContentItemCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.ContentItemService.Create(c.Context(), toModel(&input))
		h.HandleResponse(c, data, err)
		return nil
	})
}

// Update cập nhật nội dung item, trạng thái kết quả phải hợp lệ
func (h *ContentItemHandler) Update(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.parseItemID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input contentitemdto.ContentItemUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var targets []contentitemmodels.Channel
		if input.Targets != nil {
			targets = make([]contentitemmodels.Channel, 0, len(input.Targets))
			for _, raw := range input.Targets {
				targets = append(targets, contentitemmodels.Channel(raw))
			}
		}
		patch := contentitemmodels.ContentPatch{
			Body:            input.Body,
			Targets:         targets,
			ActivationTime:  input.ActivationTime,
			AssetURL:        input.AssetURL,
			AssetKey:        input.AssetKey,
			ClearActivation: input.ClearActivation,
			DetachAsset:     input.DetachAsset,
		}

		data, err := h.ContentItemService.UpdateContent(c.Context(), id, patch)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// Toggle chuyển trạng thái draft↔scheduled
func (h *ContentItemHandler) Toggle(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.parseItemID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.ContentItemService.Toggle(c.Context(), id)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// Duplicate nhân bản item thành draft mới
func (h *ContentItemHandler) Duplicate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.parseItemID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.ContentItemService.Duplicate(c.Context(), id)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// Delete xóa item kèm dọn asset (cascade, idempotent với asset đã mất)
func (h *ContentItemHandler) Delete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.parseItemID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.ContentItemService.DeleteWithAsset(c.Context(), id)
		if err == nil {
			logger.LogCRUD("delete", "content_item", id.Hex(), c, nil)
		}
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// BatchDelete xóa hàng loạt item theo danh sách ID, kèm dọn asset từng item
func (h *ContentItemHandler) BatchDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input contentitemdto.BatchDeleteInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		ids := make([]primitive.ObjectID, 0, len(input.IDs))
		for i, raw := range input.IDs {
			if !primitive.IsValidObjectID(raw) {
				h.HandleResponse(c, nil, common.NewError(
					common.ErrCodeValidationFormat,
					fmt.Sprintf("ID '%s' tại vị trí %d không đúng định dạng MongoDB ObjectID", raw, i),
					common.StatusBadRequest,
					nil,
				))
				return nil
			}
			ids = append(ids, utility.String2ObjectID(raw))
		}

		count, err := h.ContentItemService.DeleteManyWithAssets(c.Context(), ids)
		if err == nil {
			logger.LogAction("content_item_batch_delete", c, map[string]interface{}{
				"requested": len(ids),
				"deleted":   count,
			})
		}
		h.HandleResponse(c, count, err)
		return nil
	})
}

// NextUpcoming trả về item scheduled sắp đăng gần nhất kể từ hiện tại
func (h *ContentItemHandler) NextUpcoming(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		data, err := h.ContentItemService.NextUpcoming(c.Context(), time.Now().UnixMilli())
		h.HandleResponse(c, data, err)
		return nil
	})
}
