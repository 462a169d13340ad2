// Package importersvc - Test parse CSV feed, resolve ảnh và round-trip export.
package importersvc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentitemmodels "media_scheduler/internal/api/contentitem/models"
	importermodels "media_scheduler/internal/api/importer/models"
)

const feedHeader = "body,date,time,targets,image\n"

func TestParseFeed_BasicRows(t *testing.T) {
	feed := feedHeader +
		"Chào buổi sáng,2026-09-15,08:30,facebook;instagram,banner.jpg\n" +
		"Bản nháp không lịch,,,facebook,\n"

	rows, warnings, err := ParseFeed(strings.NewReader(feed))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "Chào buổi sáng", first.Body)
	assert.Equal(t, []contentitemmodels.Channel{contentitemmodels.ChannelFacebook, contentitemmodels.ChannelInstagram}, first.Targets)
	assert.Equal(t, contentitemmodels.StatusScheduled, first.Status)
	require.NotNil(t, first.ActivationTime)
	// 2026-09-15 08:30 UTC
	assert.Equal(t, int64(1789461000000), *first.ActivationTime)
	assert.Equal(t, "banner.jpg", first.ImageRef)

	second := rows[1]
	assert.Equal(t, contentitemmodels.StatusDraft, second.Status)
	assert.Nil(t, second.ActivationTime)
}

func TestParseFeed_QuotedFields(t *testing.T) {
	feed := feedHeader +
		"\"Dòng có dấu phẩy, và \"\"quote\"\"\",2026-01-02,09:00,facebook,\n"

	rows, _, err := ParseFeed(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, `Dòng có dấu phẩy, và "quote"`, rows[0].Body)
}

func TestParseFeed_BadDateBecomesDraft(t *testing.T) {
	feed := feedHeader +
		"Sai định dạng ngày,15/09/2026,08:30,facebook,\n"

	rows, _, err := ParseFeed(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, contentitemmodels.StatusDraft, rows[0].Status)
	assert.Nil(t, rows[0].ActivationTime)
	assert.NotEmpty(t, rows[0].Warnings, "lịch không parse được phải có cảnh báo mức dòng")
}

func TestParseFeed_UnknownChannelWarns(t *testing.T) {
	feed := feedHeader +
		"Bài đăng,2026-09-15,08:30,facebook;myspace,\n"

	rows, _, err := ParseFeed(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []contentitemmodels.Channel{contentitemmodels.ChannelFacebook}, rows[0].Targets)
	assert.NotEmpty(t, rows[0].Warnings)
}

func TestParseFeed_EmptyRowSkippedWithWarning(t *testing.T) {
	feed := feedHeader +
		",,,,\n" +
		"Bài thật,,,facebook,\n"

	rows, warnings, err := ParseFeed(strings.NewReader(feed))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Len(t, warnings, 1, "dòng rỗng phải sinh cảnh báo mức batch")
}

func TestParseFeed_NoUsableRowsFails(t *testing.T) {
	feed := feedHeader + ",,,,\n"

	_, _, err := ParseFeed(strings.NewReader(feed))
	assert.Error(t, err, "feed không có dòng nào nhận dạng được phải là lỗi cứng")

	_, _, err = ParseFeed(strings.NewReader(feedHeader))
	assert.Error(t, err, "feed chỉ có header phải là lỗi cứng")
}

// fakeStore giả lập object store để test resolve ảnh không cần S3
type fakeStore struct {
	uploads []string
	fail    bool
}

func (f *fakeStore) Upload(ctx context.Context, data []byte, fileName, contentType string) (string, string, error) {
	if f.fail {
		return "", "", errors.New("store unavailable")
	}
	f.uploads = append(f.uploads, fileName)
	return "https://cdn.example.com/" + fileName, "assets/" + fileName, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error { return nil }

func TestResolveImages(t *testing.T) {
	store := &fakeStore{}
	s := &ImportService{store: store}

	rows := []importermodels.ImportRow{
		{ImageRef: "https://example.com/remote.jpg"},
		{ImageRef: "local.jpg"},
		{ImageRef: "missing.jpg"},
		{ImageRef: ""},
	}
	files := map[string][]byte{"local.jpg": []byte("data")}

	missing := s.ResolveImages(context.Background(), rows, files)

	assert.Equal(t, 1, missing)

	// URL ngoài: giữ nguyên locator, không upload
	require.NotNil(t, rows[0].AssetURL)
	assert.Equal(t, "https://example.com/remote.jpg", *rows[0].AssetURL)
	assert.Nil(t, rows[0].AssetKey)

	// Filename khớp: upload và có cả URL lẫn key
	require.NotNil(t, rows[1].AssetURL)
	require.NotNil(t, rows[1].AssetKey)
	assert.Equal(t, "assets/local.jpg", *rows[1].AssetKey)
	assert.Equal(t, []string{"local.jpg"}, store.uploads)

	// Không khớp: cảnh báo mức dòng
	assert.Nil(t, rows[2].AssetURL)
	assert.NotEmpty(t, rows[2].Warnings)

	// Không có ảnh: không đụng tới
	assert.Nil(t, rows[3].AssetURL)
	assert.Empty(t, rows[3].Warnings)
}

func TestResolveImages_UploadFailureCountsMissing(t *testing.T) {
	s := &ImportService{store: &fakeStore{fail: true}}
	rows := []importermodels.ImportRow{{ImageRef: "local.jpg"}}
	files := map[string][]byte{"local.jpg": []byte("data")}

	missing := s.ResolveImages(context.Background(), rows, files)

	assert.Equal(t, 1, missing)
	assert.Nil(t, rows[0].AssetURL)
}

func TestNormalizeRows_DemotesScheduledWithoutTargets(t *testing.T) {
	// Dòng có lịch nhưng cột targets trống: không được phép thành scheduled
	// (scheduled bắt buộc có ít nhất một kênh), phải hạ xuống draft kèm cảnh báo
	feed := feedHeader + "Có lịch nhưng không có kênh,2026-06-01,09:00,,\n"

	rows, _, err := ParseFeed(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	normalizeRows(rows)

	assert.Equal(t, contentitemmodels.StatusDraft, rows[0].Status)
	assert.Empty(t, rows[0].Targets)
	assert.NotEmpty(t, rows[0].Warnings, "hạ scheduled thiếu kênh xuống draft phải có cảnh báo mức dòng")
	require.NotNil(t, rows[0].ActivationTime, "lịch parse được vẫn giữ lại trên bản draft")
}

func TestNormalizeRows_DemotesScheduledWithoutRequiredAsset(t *testing.T) {
	activation := int64(1789461000000)
	rows := []importermodels.ImportRow{
		{
			Status:         contentitemmodels.StatusScheduled,
			Targets:        []contentitemmodels.Channel{contentitemmodels.ChannelInstagram},
			ActivationTime: &activation,
		},
		{
			Status:         contentitemmodels.StatusScheduled,
			Targets:        []contentitemmodels.Channel{contentitemmodels.ChannelFacebook},
			ActivationTime: &activation,
		},
	}

	normalizeRows(rows)

	assert.Equal(t, contentitemmodels.StatusDraft, rows[0].Status, "instagram không có asset phải bị hạ xuống draft")
	assert.NotEmpty(t, rows[0].Warnings)
	assert.Equal(t, contentitemmodels.StatusScheduled, rows[1].Status, "facebook không yêu cầu asset")
}

func TestItemToRecord_RoundTrip(t *testing.T) {
	activation := int64(1789461000000) // 2026-09-15 08:30 UTC
	url := "https://cdn.example.com/banner.jpg"
	item := contentitemmodels.ContentItem{
		Body:           "Chào buổi sáng",
		Targets:        []contentitemmodels.Channel{contentitemmodels.ChannelFacebook, contentitemmodels.ChannelInstagram},
		ActivationTime: &activation,
		Status:         contentitemmodels.StatusScheduled,
		AssetURL:       &url,
	}

	record := ItemToRecord(item)
	assert.Equal(t, []string{"Chào buổi sáng", "2026-09-15", "08:30", "facebook;instagram", "https://cdn.example.com/banner.jpg"}, record)

	// Record xuất ra import lại được với cùng kết quả
	feed := feedHeader + strings.Join(record, ",") + "\n"
	rows, _, err := ParseFeed(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, item.Body, rows[0].Body)
	assert.Equal(t, item.Targets, rows[0].Targets)
	require.NotNil(t, rows[0].ActivationTime)
	assert.Equal(t, activation, *rows[0].ActivationTime)
}

func TestItemToRecord_DraftWithoutSchedule(t *testing.T) {
	item := contentitemmodels.ContentItem{
		Body:    "Nháp",
		Targets: []contentitemmodels.Channel{contentitemmodels.ChannelFacebook},
		Status:  contentitemmodels.StatusDraft,
	}

	record := ItemToRecord(item)
	assert.Equal(t, []string{"Nháp", "", "", "facebook", ""}, record)
}
