package importersvc

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"media_scheduler/internal/api/asset"
	basesvc "media_scheduler/internal/api/base/service"
	contentitemmodels "media_scheduler/internal/api/contentitem/models"
	contentitemsvc "media_scheduler/internal/api/contentitem/service"
	importermodels "media_scheduler/internal/api/importer/models"
	"media_scheduler/internal/common"
	"media_scheduler/internal/global"
	"media_scheduler/internal/utility"
)

// Layout của cột date + time trong feed CSV
const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	dateTimeLayout = dateLayout + " " + timeLayout
)

// Thứ tự cột trong feed: body, date, time, targets (;-separated), image (filename hoặc URL)
const (
	colBody = iota
	colDate
	colTime
	colTargets
	colImage
	colCount
)

// ImportService quản lý import/export content items qua CSV feed
type ImportService struct {
	*basesvc.BaseServiceMongoImpl[importermodels.ImportBatch]
	items *contentitemsvc.ContentItemService
	store asset.Store
}

// NewImportService tạo mới ImportService. Store có thể nil khi chỉ cần parse (không resolve ảnh upload).
func NewImportService(store asset.Store) (*ImportService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ImportBatchs)
	if !exist {
		return nil, fmt.Errorf("failed to get import_batches collection: %v", common.ErrNotFound)
	}
	itemService, err := contentitemsvc.NewContentItemService()
	if err != nil {
		return nil, fmt.Errorf("failed to create content item service: %v", err)
	}
	return &ImportService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[importermodels.ImportBatch](collection),
		items:                itemService,
		store:                store,
	}, nil
}

// ParseFeed parse CSV feed thành các dòng chuẩn hóa (chưa resolve ảnh).
// - Dòng đầu tiên là header, luôn bỏ qua
// - Field có quote được encoding/csv xử lý
// - date+time không parse được ⇒ dòng thành draft với activationTime nil
// - Dòng không có field nào nhận dạng được ⇒ cảnh báo mức batch, bỏ dòng
// - Không còn dòng nào nhận dạng được ⇒ lỗi cứng
func ParseFeed(r io.Reader) ([]importermodels.ImportRow, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Số cột mỗi dòng có thể khác nhau

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, common.NewError(
			common.ErrCodeImportFeed,
			fmt.Sprintf("Feed CSV không đọc được: %v", err),
			common.StatusBadRequest,
			err,
		)
	}

	if len(records) <= 1 {
		return nil, nil, common.NewError(
			common.ErrCodeImportFeed,
			"Feed CSV không có dòng dữ liệu nào sau header",
			common.StatusBadRequest,
			nil,
		)
	}

	var rows []importermodels.ImportRow
	var batchWarnings []string

	for i, record := range records[1:] {
		lineNo := i + 2 // Số dòng trong file (header là dòng 1)

		// Chuẩn hóa record về đủ số cột
		fields := make([]string, colCount)
		for j := 0; j < colCount && j < len(record); j++ {
			fields[j] = strings.TrimSpace(record[j])
		}

		row := importermodels.ImportRow{
			Body:     fields[colBody],
			ImageRef: fields[colImage],
		}

		// Parse targets (;-separated)
		if fields[colTargets] != "" {
			for _, raw := range strings.Split(fields[colTargets], ";") {
				raw = strings.TrimSpace(raw)
				if raw == "" {
					continue
				}
				ch, ok := contentitemmodels.ParseChannel(strings.ToLower(raw))
				if !ok {
					row.Warnings = append(row.Warnings, fmt.Sprintf("Kênh '%s' không được hỗ trợ, đã bỏ qua", raw))
					continue
				}
				row.Targets = append(row.Targets, ch)
			}
		}

		// Dòng không có field nào nhận dạng được: cảnh báo và bỏ
		if row.Body == "" && len(row.Targets) == 0 && fields[colDate] == "" && fields[colTime] == "" {
			batchWarnings = append(batchWarnings, fmt.Sprintf("Dòng %d không có dữ liệu nhận dạng được, đã bỏ qua", lineNo))
			continue
		}

		// Parse date + time; thất bại ⇒ draft với activationTime nil
		if fields[colDate] != "" || fields[colTime] != "" {
			when, err := time.ParseInLocation(dateTimeLayout, fields[colDate]+" "+fields[colTime], time.UTC)
			if err != nil {
				row.Warnings = append(row.Warnings, fmt.Sprintf("Không parse được lịch đăng '%s %s', chuyển thành draft", fields[colDate], fields[colTime]))
			} else {
				millis := when.UnixMilli()
				row.ActivationTime = &millis
			}
		}

		if row.ActivationTime != nil {
			row.Status = contentitemmodels.StatusScheduled
		} else {
			row.Status = contentitemmodels.StatusDraft
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, nil, common.NewError(
			common.ErrCodeImportFeed,
			"Feed CSV không có dòng nào nhận dạng được",
			common.StatusBadRequest,
			map[string]interface{}{"warnings": batchWarnings},
		)
	}

	return rows, batchWarnings, nil
}

// ResolveImages gắn asset cho từng dòng:
// - Giá trị bắt đầu bằng http(s):// là URL ngoài, giữ nguyên làm locator
// - Ngược lại là filename, phải khớp CHÍNH XÁC tên một file trong files ⇒ upload lên store
// - Không khớp ⇒ tăng bộ đếm missing, cảnh báo mức dòng
// Trả về số dòng có ảnh bị thiếu.
func (s *ImportService) ResolveImages(ctx context.Context, rows []importermodels.ImportRow, files map[string][]byte) int {
	missing := 0
	for i := range rows {
		ref := rows[i].ImageRef
		if ref == "" {
			continue
		}

		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			url := ref
			rows[i].AssetURL = &url
			continue
		}

		data, ok := files[ref]
		if !ok || s.store == nil {
			missing++
			rows[i].Warnings = append(rows[i].Warnings, fmt.Sprintf("Không tìm thấy file ảnh '%s' trong batch", ref))
			continue
		}

		contentType := mime.TypeByExtension(filepath.Ext(ref))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		url, key, err := s.store.Upload(ctx, data, ref, contentType)
		if err != nil {
			missing++
			rows[i].Warnings = append(rows[i].Warnings, fmt.Sprintf("Upload ảnh '%s' thất bại", ref))
			utility.LogWarning("Import: upload ảnh lên store thất bại", "fileName", ref, "error", err.Error())
			continue
		}
		rows[i].AssetURL = &url
		rows[i].AssetKey = &key
	}
	return missing
}

// normalizeRows hạ các dòng scheduled không thỏa ràng buộc trạng thái xuống draft:
// thiếu kênh đăng (scheduled bắt buộc có ít nhất một kênh) hoặc thiếu asset mà kênh yêu cầu.
func normalizeRows(rows []importermodels.ImportRow) {
	for i := range rows {
		if rows[i].Status != contentitemmodels.StatusScheduled {
			continue
		}

		if len(rows[i].Targets) == 0 {
			rows[i].Status = contentitemmodels.StatusDraft
			rows[i].Warnings = append(rows[i].Warnings, "Dòng có lịch nhưng không có kênh đăng nào, chuyển thành draft")
			continue
		}

		hasAsset := rows[i].AssetURL != nil && *rows[i].AssetURL != ""
		for _, ch := range rows[i].Targets {
			if ch.RequiresAsset() && !hasAsset {
				rows[i].Status = contentitemmodels.StatusDraft
				rows[i].Warnings = append(rows[i].Warnings, fmt.Sprintf("Kênh %s yêu cầu media asset, dòng chuyển thành draft", ch))
				break
			}
		}
	}
}

// Preview parse feed + resolve ảnh + lưu batch ở trạng thái preview để commit sau.
func (s *ImportService) Preview(ctx context.Context, csvData []byte, files map[string][]byte) (importermodels.ImportBatch, error) {
	var zero importermodels.ImportBatch

	rows, warnings, err := ParseFeed(bytes.NewReader(csvData))
	if err != nil {
		return zero, err
	}

	missing := s.ResolveImages(ctx, rows, files)
	normalizeRows(rows)

	batch := importermodels.ImportBatch{
		Status:   importermodels.BatchStatusPreview,
		Rows:     rows,
		RowCount: len(rows),
		Warnings: warnings,
	}
	batch.MissingImages = missing
	for _, row := range rows {
		if row.Status == contentitemmodels.StatusScheduled {
			batch.ScheduledCount++
		} else {
			batch.DraftCount++
		}
	}

	return s.InsertOne(ctx, batch)
}

// Commit ghi toàn bộ dòng của một batch preview vào content_items trong một lần InsertMany.
// Batch đã commit rồi thì không commit lại được.
func (s *ImportService) Commit(ctx context.Context, batchID primitive.ObjectID) (int, error) {
	batch, err := s.FindOneById(ctx, batchID)
	if err != nil {
		return 0, err
	}

	if batch.Status == importermodels.BatchStatusCommitted {
		return 0, common.NewError(
			common.ErrCodeBusinessOperation,
			"Batch này đã được commit trước đó",
			common.StatusConflict,
			map[string]interface{}{"batchId": batchID.Hex()},
		)
	}

	items := make([]contentitemmodels.ContentItem, 0, len(batch.Rows))
	for _, row := range batch.Rows {
		items = append(items, contentitemmodels.ContentItem{
			Body:           row.Body,
			Targets:        row.Targets,
			ActivationTime: row.ActivationTime,
			Status:         row.Status,
			AssetURL:       row.AssetURL,
			AssetKey:       row.AssetKey,
			ImportBatchID:  &batch.ID,
		})
	}

	inserted, err := s.items.InsertMany(ctx, items)
	if err != nil {
		return 0, err
	}

	update := &basesvc.UpdateData{Set: map[string]interface{}{
		"status": importermodels.BatchStatusCommitted,
	}}
	if _, err := s.UpdateById(ctx, batchID, update); err != nil {
		return len(inserted), err
	}

	return len(inserted), nil
}

// ExportCSV xuất toàn bộ content items ra đúng shape của feed import
// (round-trip: file xuất ra import lại được).
func (s *ImportService) ExportCSV(ctx context.Context) ([]byte, error) {
	items, err := s.items.Find(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"body", "date", "time", "targets", "image"}); err != nil {
		return nil, err
	}

	for _, item := range items {
		record := ItemToRecord(item)
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ItemToRecord chuyển một content item thành một record CSV theo thứ tự cột của feed
func ItemToRecord(item contentitemmodels.ContentItem) []string {
	date, timeOfDay := "", ""
	if item.ActivationTime != nil {
		when := time.UnixMilli(*item.ActivationTime).UTC()
		date = when.Format(dateLayout)
		timeOfDay = when.Format(timeLayout)
	}

	targets := make([]string, 0, len(item.Targets))
	for _, ch := range item.Targets {
		targets = append(targets, string(ch))
	}

	image := ""
	if item.AssetURL != nil {
		image = *item.AssetURL
	}

	return []string{item.Body, date, timeOfDay, strings.Join(targets, ";"), image}
}
