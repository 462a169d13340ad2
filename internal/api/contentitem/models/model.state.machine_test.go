// Package models - Test state machine và ràng buộc theo trạng thái của content item.
package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func millis(v int64) *int64 { return &v }

func TestValidateTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{"draft sang scheduled", StatusDraft, StatusScheduled, false},
		{"scheduled về draft", StatusScheduled, StatusDraft, false},
		{"scheduled sang published", StatusScheduled, StatusPublished, false},
		{"draft sang published phải qua scheduled", StatusDraft, StatusPublished, true},
		{"published là trạng thái cuối", StatusPublished, StatusScheduled, true},
		{"published không về draft được", StatusPublished, StatusDraft, true},
		{"cùng trạng thái luôn hợp lệ", StatusDraft, StatusDraft, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTransition(tc.from, tc.to)
			if tc.wantErr {
				assert.Error(t, err, "chuyển %s -> %s phải bị chặn", tc.from, tc.to)
			} else {
				assert.NoError(t, err, "chuyển %s -> %s phải được phép", tc.from, tc.to)
			}
		})
	}
}

func TestValidateForStatus_Draft(t *testing.T) {
	// Draft được phép thiếu targets và activation time
	item := &ContentItem{Body: "nháp", Status: StatusDraft}
	assert.NoError(t, ValidateForStatus(item))
}

func TestValidateForStatus_ScheduledRequiresActivationAndTargets(t *testing.T) {
	item := &ContentItem{
		Body:    "bài đăng",
		Status:  StatusScheduled,
		Targets: []Channel{ChannelFacebook},
	}
	assert.Error(t, ValidateForStatus(item), "scheduled thiếu activationTime phải bị chặn")

	item.ActivationTime = millis(1700000000000)
	assert.NoError(t, ValidateForStatus(item))

	item.Targets = nil
	assert.Error(t, ValidateForStatus(item), "scheduled không có target nào phải bị chặn")
}

func TestValidateForStatus_AssetRequiredPerChannel(t *testing.T) {
	item := &ContentItem{
		Body:           "bài có ảnh",
		Status:         StatusScheduled,
		Targets:        []Channel{ChannelInstagram},
		ActivationTime: millis(1700000000000),
	}
	assert.Error(t, ValidateForStatus(item), "instagram yêu cầu asset khi scheduled")

	url := "https://cdn.example.com/a.jpg"
	item.AssetURL = &url
	assert.NoError(t, ValidateForStatus(item))

	// Facebook không yêu cầu asset
	noAsset := &ContentItem{
		Body:           "chỉ chữ",
		Status:         StatusScheduled,
		Targets:        []Channel{ChannelFacebook},
		ActivationTime: millis(1700000000000),
	}
	assert.NoError(t, ValidateForStatus(noAsset))
}

func TestValidateForStatus_BodyLimitPerChannel(t *testing.T) {
	longBody := strings.Repeat("a", 2201)

	item := &ContentItem{
		Body:           longBody,
		Status:         StatusScheduled,
		Targets:        []Channel{ChannelFacebook},
		ActivationTime: millis(1700000000000),
	}
	assert.NoError(t, ValidateForStatus(item), "2201 ký tự vẫn trong giới hạn facebook")

	item.Targets = []Channel{ChannelFacebook, ChannelTikTok}
	assert.Error(t, ValidateForStatus(item), "vượt giới hạn của bất kỳ kênh nào cũng phải bị chặn")
}

func TestValidateForStatus_BodyLimitCountsRunes(t *testing.T) {
	// 2200 ký tự tiếng Việt nhiều byte vẫn phải hợp lệ với instagram
	body := strings.Repeat("ầ", 2200)
	url := "https://cdn.example.com/a.jpg"
	item := &ContentItem{
		Body:           body,
		Status:         StatusScheduled,
		Targets:        []Channel{ChannelInstagram},
		ActivationTime: millis(1700000000000),
		AssetURL:       &url,
	}
	assert.NoError(t, ValidateForStatus(item), "giới hạn body phải đếm theo ký tự, không theo byte")
}

func TestValidateForStatus_PublishedMustNotKeepAsset(t *testing.T) {
	url := "https://cdn.example.com/a.jpg"
	key := "assets/a.jpg"

	item := &ContentItem{
		Body:           "bài đã đăng",
		Status:         StatusPublished,
		Targets:        []Channel{ChannelFacebook},
		ActivationTime: millis(1700000000000),
		AssetURL:       &url,
		AssetKey:       &key,
	}
	assert.Error(t, ValidateForStatus(item), "published còn giữ asset phải bị chặn")

	// Chỉ còn key (url đã mất) vẫn là vi phạm: store vẫn giữ object
	item.AssetURL = nil
	assert.Error(t, ValidateForStatus(item))

	// Archive sạch thì hợp lệ
	item.AssetKey = nil
	assert.NoError(t, ValidateForStatus(item))
}

func TestValidateForStatus_UnknownChannel(t *testing.T) {
	item := &ContentItem{
		Body:           "bài đăng",
		Status:         StatusScheduled,
		Targets:        []Channel{Channel("myspace")},
		ActivationTime: millis(1700000000000),
	}
	assert.Error(t, ValidateForStatus(item))
}
